package repository

import (
	"strings"
	"time"

	"bizsite/internal/models"

	"gorm.io/gorm"
)

// Predicate is one typed condition of a list query. Column names come from
// code, never from request input.
type Predicate interface {
	apply(db *gorm.DB) *gorm.DB
}

type predicateFunc func(db *gorm.DB) *gorm.DB

func (f predicateFunc) apply(db *gorm.DB) *gorm.DB { return f(db) }

// Eq matches column = value.
func Eq(column string, value any) Predicate {
	return predicateFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	})
}

// Neq matches column <> value.
func Neq(column string, value any) Predicate {
	return predicateFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" <> ?", value)
	})
}

// In matches column IN values.
func In[V any](column string, values ...V) Predicate {
	return predicateFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" IN ?", values)
	})
}

// Before matches rows where column is set and earlier than or equal to t.
func Before(column string, t time.Time) Predicate {
	return predicateFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" IS NOT NULL AND "+column+" <= ?", t)
	})
}

// IsNull matches rows where column is NULL.
func IsNull(column string) Predicate {
	return predicateFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(column + " IS NULL")
	})
}

// Search matches rows where any of columns contains term, case-insensitively.
func Search(term string, columns ...string) Predicate {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return predicateFunc(func(db *gorm.DB) *gorm.DB {
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Filters collects predicates; zero-valued inputs add nothing.
type Filters []Predicate

// EqIf adds Eq when ok.
func (f Filters) EqIf(ok bool, column string, value any) Filters {
	if ok {
		return append(f, Eq(column, value))
	}
	return f
}

// SearchIf adds Search when term is not blank.
func (f Filters) SearchIf(term string, columns ...string) Filters {
	if term = strings.TrimSpace(term); term != "" {
		return append(f, Search(term, columns...))
	}
	return f
}

func applyAll(db *gorm.DB, preds []Predicate) *gorm.DB {
	for _, p := range preds {
		db = p.apply(db)
	}
	return db
}

// ListQuery is a filtered, ordered and paginated list request.
type ListQuery struct {
	Filters []Predicate
	Order   string
	Page    models.PageRequest
}
