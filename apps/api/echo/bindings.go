package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/elimuhq/elimu/core"
)

var orderingParam = "ordering"

// sortable column names per resource; ordering fields end up in SQL, so
// anything not listed here is dropped.
var (
	courseOrderingFields = []string{"title", "difficulty", "created_at", "updated_at"}
	ticketOrderingFields = []string{"subject", "status", "created_at", "updated_at"}
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses the "ordering" query param, a comma-separated field list where
// a "-" prefix means descending (e.g. "-created_at,title"). Fields outside
// the allowed set are ignored.
func (ord *Ordering) Bind(ctx echo.Context, allowed []string) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if !isOrderingField(field, allowed) {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

func isOrderingField(field string, allowed []string) bool {
	for _, f := range allowed {
		if f == field {
			return true
		}
	}
	return false
}
