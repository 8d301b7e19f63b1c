package controllers

import (
	"net/http"

	"github.com/angelmondragon/discswap-backend/api/responses"
	"github.com/angelmondragon/discswap-backend/api/validators"
	"github.com/angelmondragon/discswap-backend/internal/listings"
	"github.com/angelmondragon/discswap-backend/internal/search"
	"github.com/angelmondragon/discswap-backend/pkg/enums"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
)

const maxQueryLength = 200

// SearchListings runs the fuzzy matcher for ?q=. ?threshold= overrides the
// configured default and is not clamped; ?status=listed hides traded discs.
func SearchListings(svc search.Service, defaultThreshold int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLength)

		threshold, err := validators.ParseQueryInt(r, "threshold", defaultThreshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.ParseQueryOneOf(r, "status", enums.ListingStatusListed.String(), enums.ListingStatusTraded.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		matches, err := svc.Search(r.Context(), query, threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if status != "" {
			matches = search.WithStatus(matches, enums.ListingStatus(status))
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"threshold": threshold,
			"results":   len(matches),
		})
		logg.Debug(ctx, "search.complete")
		responses.WriteSuccess(w, listings.NewListingDTOs(matches))
	}
}
