package option

import (
	"strings"

	"gorm.io/gorm"
)

// Option mutates a GORM statement.
type Option interface {
	Apply(*gorm.DB) *gorm.DB
}

type sortBy struct {
	clause string
}

func (s sortBy) Apply(stmt *gorm.DB) *gorm.DB {
	if s.clause == "" {
		return stmt
	}
	return stmt.Order(s.clause)
}

// WithSortBy applies a pre-validated ORDER BY clause.
func WithSortBy(clause string) Option {
	return sortBy{clause: clause}
}

// WithQuerySortBy validates a requested sort column against an allow-list
// and returns the ORDER BY clause, defaulting to created_at ASC.
func WithQuerySortBy(column, order string, allowed map[string]bool) string {
	column = strings.TrimSpace(strings.ToLower(column))
	if column == "" || !allowed[column] {
		column = "created_at"
	}

	order = strings.TrimSpace(strings.ToUpper(order))
	if order != "DESC" {
		order = "ASC"
	}

	return column + " " + order
}

type limit struct {
	n int
}

func (l limit) Apply(stmt *gorm.DB) *gorm.DB {
	if l.n <= 0 {
		return stmt
	}
	return stmt.Limit(l.n)
}

// WithLimit caps the number of returned rows.
func WithLimit(n int) Option {
	return limit{n: n}
}
