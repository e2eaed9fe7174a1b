package services

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultMealLimit = 10
	DefaultSample    = 1
	MaxSample        = 10
)

// MealQuery is the filter and page for a meal listing. Search and Category
// may be combined; both must then match.
type MealQuery struct {
	Limit    int
	Offset   int
	Search   string
	Category string
}

func DefaultMealQuery() MealQuery {
	return MealQuery{Limit: DefaultMealLimit}
}

// Apply adds the predicate, ordering and page to tx.
func (q MealQuery) Apply(tx *gorm.DB) *gorm.DB {
	if term := strings.TrimSpace(q.Search); term != "" {
		tx = tx.Where("name ILIKE ?", "%"+escapeLike(term)+"%")
	}
	if q.Category != "" {
		tx = tx.Where("? = ANY(category)", q.Category)
	}
	tx = tx.Order("id").Limit(q.Limit)
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return tx
}

// ClampLimit caps Limit at max. A non-positive max leaves it unbounded.
func (q MealQuery) ClampLimit(max int) MealQuery {
	if max > 0 && q.Limit > max {
		q.Limit = max
	}
	return q
}

// ClampSample maps a requested sample size into [1, MaxSample].
func ClampSample(n int) int {
	if n < 1 {
		return DefaultSample
	}
	if n > MaxSample {
		return MaxSample
	}
	return n
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
