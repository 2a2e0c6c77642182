package db

import (
	"gorm.io/gorm"
)

// Limit is a GORM scope that caps the number of rows. Non-positive values
// fall back to def.
//
// Example usage:
//
//	db.Model(&Model{}).Scopes(db.Limit(req.Limit, 50)).Find(&rows)
func Limit(n, def int) func(db *gorm.DB) *gorm.DB {
	if n <= 0 {
		n = def
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(n)
	}
}

// Newest orders rows by the given timestamp column, newest first, with the
// primary key as a tie breaker so results are stable.
func Newest(column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " DESC").Order("id DESC")
	}
}

// Clamp bounds n to [min, max].
func Clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
