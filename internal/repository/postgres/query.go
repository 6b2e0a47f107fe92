package postgres

import (
	"fmt"
	"strings"

	"github.com/tutorbook/tutorbook/internal/types"
)

// conditions collects positional WHERE clauses. Every query starts scoped
// to the tutor of the request.
type conditions struct {
	clauses []string
	args    []interface{}
}

func tutorScoped(tutorID string, alias string) *conditions {
	c := &conditions{}
	c.add(column(alias, "tutor_id")+" = ?", tutorID)
	return c
}

// add appends a clause whose ? placeholders are replaced in order
func (c *conditions) add(clause string, args ...interface{}) *conditions {
	for _, arg := range args {
		c.args = append(c.args, arg)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(c.args)), 1)
	}
	c.clauses = append(c.clauses, clause)
	return c
}

func (c *conditions) where() string {
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page appends ORDER BY, LIMIT and OFFSET for the filter
func (c *conditions) page(f *types.QueryFilter, alias string, allowedSort ...string) string {
	order := "DESC"
	if f.GetOrder() == types.OrderAsc {
		order = "ASC"
	}
	// id breaks ties so pages never overlap
	sql := fmt.Sprintf(" ORDER BY %s %s, %s %s", column(alias, f.SortColumn(allowedSort...)), order, column(alias, "id"), order)
	if !f.IsUnlimited() {
		c.args = append(c.args, f.GetLimit())
		sql += fmt.Sprintf(" LIMIT $%d", len(c.args))
	}
	if f.GetOffset() > 0 {
		c.args = append(c.args, f.GetOffset())
		sql += fmt.Sprintf(" OFFSET $%d", len(c.args))
	}
	return sql
}

func column(alias, name string) string {
	if alias == "" {
		return name
	}
	return alias + "." + name
}
