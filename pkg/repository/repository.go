package repository

import (
	"context"

	"github.com/smallbiznis/estate/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a thin generic CRUD layer over a single gorm model. A
// zero-value field in the filter is ignored, following gorm's struct
// conditions.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, filter *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, filter *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID any, values any) (int64, error)
	Count(ctx context.Context, filter *T) (int64, error)
}
