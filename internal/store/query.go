package store

import (
	"fmt"
	"strings"
)

// updateBuilder assembles a single UPDATE ... RETURNING statement from the
// columns present in a partial update.
type updateBuilder struct {
	sets []string
	args []any
}

func (u *updateBuilder) add(column string, value any) {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
}

func setIf[T any](u *updateBuilder, column string, value *T) {
	if value != nil {
		u.add(column, *value)
	}
}

func (u *updateBuilder) build(table string, id int64, returning string) (string, []any) {
	args := append(u.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(u.sets, ", "), len(args), returning)
	return query, args
}
