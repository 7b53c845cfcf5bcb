package database

import (
	"gorm.io/gorm"
)

// Limit caps a query at n rows, falling back to def when n is out of range
func Limit(n, def, max int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if n < 1 {
			n = def
		}
		if n > max {
			n = max
		}
		return db.Limit(n)
	}
}

// OrderBy adds ordering to a query
func OrderBy(field string, desc bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		order := field
		if desc {
			order = field + " DESC"
		}
		return db.Order(order)
	}
}

// WhereIf conditionally adds a where clause
func WhereIf(condition bool, query interface{}, args ...interface{}) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if condition {
			return db.Where(query, args...)
		}
		return db
	}
}
