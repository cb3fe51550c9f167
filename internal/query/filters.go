package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns user input into a lower-cased LIKE pattern that matches it literally.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func containsExpr(column string) string {
	return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column)
}

// Contains is a case-insensitive substring filter. Empty values add nothing.
func Contains(column, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(containsExpr(column), ContainsPattern(value))
	}
}

// ContainsAny matches value as a substring of any of columns.
func ContainsAny(value string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" || len(columns) == 0 {
			return db
		}
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		pattern := ContainsPattern(value)
		for i, c := range columns {
			parts[i] = containsExpr(c)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func In(column string, ids []int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		return db.Where(column+" IN ?", ids)
	}
}

// FloatRange applies inclusive bounds. Bounds that are empty or not numbers are ignored.
func FloatRange(column, lo, hi string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v, ok := parseFinite(lo); ok {
			db = db.Where(column+" >= ?", v)
		}
		if v, ok := parseFinite(hi); ok {
			db = db.Where(column+" <= ?", v)
		}
		return db
	}
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func IntRange(column, lo, hi string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v, err := strconv.Atoi(strings.TrimSpace(lo)); err == nil {
			db = db.Where(column+" >= ?", v)
		}
		if v, err := strconv.Atoi(strings.TrimSpace(hi)); err == nil {
			db = db.Where(column+" <= ?", v)
		}
		return db
	}
}

// Equal filters on column = value when ok is set.
func Equal[T any](column string, value T, ok bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !ok {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}
