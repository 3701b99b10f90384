package handlers

import (
	"net/http"

	"github.com/mr-saberi/siite/internal/i18n"
)

// Stats backs the admin dashboard.
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Store.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, r, internal(i18n.StatsLoadFailed, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
