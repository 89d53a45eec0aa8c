package database

import (
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/utils"
)

// NotDeleted excludes soft-deleted rows. Every read of a soft-deletable
// entity (users, projects) goes through this scope instead of repeating
// the filter at call sites.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Paginate applies offset/limit pagination to a GORM query.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
