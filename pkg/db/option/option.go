package option

import (
	"strconv"

	"github.com/smallbiznis/estate/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type QueryOptionFunc func(*gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

func WithLimit(limit int) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

func WithOrder(column string, desc bool) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	})
}

func WithWhere(query any, args ...any) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
}

// ApplyPagination orders by id and fetches one row past the page size so
// callers can tell whether another page exists. The cursor must already be
// decoded.
func ApplyPagination(page pagination.Pagination, cursor *pagination.Cursor) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if cursor != nil && cursor.ID != "" {
			if id, err := strconv.ParseInt(cursor.ID, 10, 64); err == nil {
				db = db.Where("id > ?", id)
			} else {
				db = db.Where("id > ?", cursor.ID)
			}
		}
		return db.Order("id ASC").Limit(page.Size() + 1)
	})
}
