package enums

import "fmt"

// ListingStatus tracks whether a disc is still available for trade.
type ListingStatus string

const (
	ListingStatusListed ListingStatus = "listed"
	ListingStatusTraded ListingStatus = "traded"
)

var validListingStatuses = []ListingStatus{
	ListingStatusListed,
	ListingStatusTraded,
}

// forward-only lifecycle; same-state moves are allowed and treated as no-ops.
var listingStatusTransitions = map[ListingStatus][]ListingStatus{
	ListingStatusListed: {ListingStatusListed, ListingStatusTraded},
	ListingStatusTraded: {ListingStatusTraded},
}

// String implements fmt.Stringer.
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ListingStatus.
func (s ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a listing in status s may move to next.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	for _, candidate := range listingStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}
