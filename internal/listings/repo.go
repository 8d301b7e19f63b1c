package listings

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/discswap-backend/pkg/db/models"
	"github.com/angelmondragon/discswap-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a listings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, listing *models.DiscListing) (*models.DiscListing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.DiscListing, error) {
	var listing models.DiscListing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.DiscListing, error) {
	query := r.db.WithContext(ctx).Model(&models.DiscListing{})
	if owner := strings.TrimSpace(filter.Owner); owner != "" {
		query = query.Where("owner = ?", owner)
	}

	listings := []models.DiscListing{}
	if err := query.Order("id ASC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// FindByBrandOrName returns every listing whose brand or name equals value exactly.
func (r *repository) FindByBrandOrName(ctx context.Context, value string) ([]models.DiscListing, error) {
	listings := []models.DiscListing{}
	err := r.db.WithContext(ctx).
		Where("brand = ? OR name = ?", value, value).
		Order("id ASC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.ListingStatus, dateSold *time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.DiscListing{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    status,
			"date_sold": dateSold,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DiscListing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
