package models

import (
	"time"

	"github.com/angelmondragon/discswap-backend/pkg/enums"
)

// DiscListing is one disc offered for trade on the marketplace.
type DiscListing struct {
	ID         int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Brand      string              `gorm:"column:brand;type:varchar(255);not null;index:disc_listings_brand_idx"`
	Name       string              `gorm:"column:name;type:varchar(255);not null;index:disc_listings_name_idx"`
	Weight     int                 `gorm:"column:weight;not null"`
	Color      string              `gorm:"column:color;type:varchar(255);not null"`
	Plastic    string              `gorm:"column:plastic;type:varchar(255);not null"`
	Owner      string              `gorm:"column:owner;type:varchar(255);not null;index:disc_listings_owner_idx"`
	ImageURL   *string             `gorm:"column:image_url;type:text"`
	Terms      string              `gorm:"column:terms;type:text;not null"`
	TermsKind  enums.TermsKind     `gorm:"column:terms_kind;type:varchar(32);not null"`
	Status     enums.ListingStatus `gorm:"column:status;type:varchar(16);not null"`
	DateListed time.Time           `gorm:"column:date_listed;not null"`
	DateSold   *time.Time          `gorm:"column:date_sold"`
}

// TableName pins the table name used by migrations.
func (DiscListing) TableName() string {
	return "disc_listings"
}
