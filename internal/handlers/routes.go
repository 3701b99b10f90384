package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/mr-saberi/siite/internal/i18n"
)

type RouterOptions struct {
	CSRFEnabled bool
	CSRFKey     []byte
	// CookieSecure marks the CSRF cookie Secure and enables the strict
	// Referer checks that only make sense behind TLS.
	CookieSecure   bool
	TrustedOrigins []string

	LoginLimiter   *RateLimiter
	ContactLimiter *RateLimiter
}

// Routes registers every endpoint on a new ServeMux.
//
// CSRF checks run after the admin guard, so an anonymous
// request is still answered 401 and a non-admin 403. Login, logout and the
// public contact form carry no CSRF check; the session cookie is SameSite
// Strict.
func (a *API) Routes(opts RouterOptions) *http.ServeMux {
	guard := &Guard{Sessions: a.Sessions}
	protect := csrfMiddleware(opts)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return guard.RequireAdmin(protect(next))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", opts.LoginLimiter.Middleware(a.Login))
	mux.HandleFunc("POST /api/auth/logout", a.Logout)
	mux.HandleFunc("GET /api/auth/user", guard.RequireAuthenticated(a.CurrentUser))
	mux.HandleFunc("GET /api/auth/csrf", protect(a.CSRFToken))

	mux.HandleFunc("GET /api/categories", a.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}", a.GetCategory)
	mux.HandleFunc("POST /api/categories", admin(a.CreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", admin(a.UpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", admin(a.DeleteCategory))

	mux.HandleFunc("GET /api/products", a.ListProducts)
	mux.HandleFunc("GET /api/products/featured", a.ListFeaturedProducts)
	mux.HandleFunc("GET /api/products/{id}", a.GetProduct)
	mux.HandleFunc("POST /api/products", admin(a.CreateProduct))
	mux.HandleFunc("PUT /api/products/{id}", admin(a.UpdateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", admin(a.DeleteProduct))

	mux.HandleFunc("GET /api/gallery", a.ListGallery)
	mux.HandleFunc("POST /api/gallery", admin(a.CreateGalleryImage))
	mux.HandleFunc("DELETE /api/gallery/{id}", admin(a.DeleteGalleryImage))

	mux.HandleFunc("POST /api/contact", opts.ContactLimiter.Middleware(a.SubmitContact))
	mux.HandleFunc("GET /api/contact", admin(a.ListContactMessages))
	mux.HandleFunc("DELETE /api/contact/{id}", admin(a.DeleteContactMessage))

	mux.HandleFunc("POST /api/uploads", admin(a.UploadImage))
	mux.HandleFunc("GET /api/admin/stats", admin(a.Stats))

	mux.Handle("GET /uploads/", uploadsHandler(a.UploadDir))

	mux.HandleFunc("/", unmatched(mux))

	return mux
}

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// unmatched answers requests no other pattern took: 405 with an Allow header
// when the path exists under another method, 404 otherwise.
func unmatched(mux *http.ServeMux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range routeMethods {
			alt := r.Clone(r.Context())
			alt.Method = method
			if _, pattern := mux.Handler(alt); pattern != "" && pattern != "/" {
				allowed = append(allowed, method)
			}
		}
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			writeMessage(w, r, http.StatusMethodNotAllowed, i18n.MethodNotAllowed)
			return
		}
		writeMessage(w, r, http.StatusNotFound, i18n.RouteNotFound)
	}
}

// NewRouter wraps the routes in the middleware chain:
// Logger -> Security Headers -> Mux.
func NewRouter(a *API, opts RouterOptions) http.Handler {
	return LoggingMiddleware(SecurityHeadersMiddleware(a.Routes(opts)))
}

// csrfMiddleware returns the per-route CSRF check, or a pass-through when
// CSRF protection is disabled.
func csrfMiddleware(opts RouterOptions) func(http.HandlerFunc) http.HandlerFunc {
	if !opts.CSRFEnabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	protect := csrf.Protect(
		opts.CSRFKey,
		csrf.Secure(opts.CookieSecure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.TrustedOrigins(opts.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	return func(next http.HandlerFunc) http.HandlerFunc {
		handler := protect(next)
		if !opts.CookieSecure {
			handler = plaintextHTTP(handler)
		}
		return handler.ServeHTTP
	}
}

// plaintextHTTP tells the CSRF middleware the server is not behind TLS, so it
// skips the Referer checks that would reject every plain HTTP request.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.Warn("CSRF check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	writeMessage(w, r, http.StatusForbidden, i18n.CSRFTokenInvalid)
}
