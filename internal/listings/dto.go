package listings

import (
	"time"

	"github.com/angelmondragon/discswap-backend/pkg/db/models"
)

// ListingDTO is the disc listing payload returned to clients.
type ListingDTO struct {
	ID         int64      `json:"id"`
	Brand      string     `json:"brand"`
	Name       string     `json:"name"`
	Weight     int        `json:"weight"`
	Color      string     `json:"color"`
	Plastic    string     `json:"plastic"`
	Owner      string     `json:"owner"`
	ImageURL   *string    `json:"image_url,omitempty"`
	Terms      string     `json:"terms"`
	TermsKind  string     `json:"terms_kind"`
	Status     string     `json:"status"`
	DateListed time.Time  `json:"date_listed"`
	DateSold   *time.Time `json:"date_sold,omitempty"`
}

// NewListingDTO maps a persisted listing to its API shape.
func NewListingDTO(listing models.DiscListing) ListingDTO {
	return ListingDTO{
		ID:         listing.ID,
		Brand:      listing.Brand,
		Name:       listing.Name,
		Weight:     listing.Weight,
		Color:      listing.Color,
		Plastic:    listing.Plastic,
		Owner:      listing.Owner,
		ImageURL:   listing.ImageURL,
		Terms:      listing.Terms,
		TermsKind:  listing.TermsKind.String(),
		Status:     listing.Status.String(),
		DateListed: listing.DateListed,
		DateSold:   listing.DateSold,
	}
}

// NewListingDTOs maps a slice, always returning a non-nil result.
func NewListingDTOs(listings []models.DiscListing) []ListingDTO {
	out := make([]ListingDTO, 0, len(listings))
	for _, listing := range listings {
		out = append(out, NewListingDTO(listing))
	}
	return out
}
