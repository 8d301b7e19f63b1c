package listings

import (
	"context"
	"time"

	"github.com/angelmondragon/discswap-backend/pkg/db/models"
	"github.com/angelmondragon/discswap-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the disc_listings table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, listing *models.DiscListing) (*models.DiscListing, error)
	FindByID(ctx context.Context, id int64) (*models.DiscListing, error)
	List(ctx context.Context, filter ListFilter) ([]models.DiscListing, error)
	FindByBrandOrName(ctx context.Context, value string) ([]models.DiscListing, error)
	UpdateStatus(ctx context.Context, id int64, status enums.ListingStatus, dateSold *time.Time) error
	Delete(ctx context.Context, id int64) error
}

// ListFilter narrows ListAll. An empty Owner means every owner.
type ListFilter struct {
	Owner string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
