package search

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/discswap-backend/internal/listings"
	"github.com/angelmondragon/discswap-backend/pkg/db/models"
	"github.com/angelmondragon/discswap-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"github.com/angelmondragon/discswap-backend/pkg/fuzzy"
	"github.com/angelmondragon/discswap-backend/pkg/metrics"
)

// DefaultThreshold is the minimum score a matched string needs when callers do not pick one.
const DefaultThreshold = 50

// Service resolves free-text queries to marketplace listings.
type Service interface {
	Search(ctx context.Context, query string, threshold int) ([]models.DiscListing, error)
}

type listingReader interface {
	List(ctx context.Context, filter listings.ListFilter) ([]models.DiscListing, error)
	FindByBrandOrName(ctx context.Context, value string) ([]models.DiscListing, error)
}

// ServiceParams groups dependencies for the search service.
type ServiceParams struct {
	Listings listingReader
	// Scorer defaults to fuzzy.WeightedRatio.
	Scorer fuzzy.Scorer
	// ScorerName labels search metrics.
	ScorerName string
	Metrics    *metrics.SearchMetrics
}

type service struct {
	listings   listingReader
	scorer     fuzzy.Scorer
	scorerName string
	metrics    *metrics.SearchMetrics
}

// NewService builds the fuzzy search matcher.
func NewService(params ServiceParams) (Service, error) {
	if params.Listings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listings reader is required")
	}
	scorer, name := params.Scorer, params.ScorerName
	if scorer == nil {
		scorer, name = fuzzy.ScorerFunc(fuzzy.WeightedRatio), fuzzy.ScorerWeighted
	}
	return &service{
		listings:   params.Listings,
		scorer:     scorer,
		scorerName: name,
		metrics:    params.Metrics,
	}, nil
}

// ScoredString is a brand or name value with its score against the query.
type ScoredString struct {
	Value string
	Score int
}

// Search scores query against every brand, then every name, keeps the first
// occurrence of each distinct string scoring at least threshold, and returns
// all listings whose brand or name equals a surviving string. Listings that
// match through more than one string are returned once per string.
func (s *service) Search(ctx context.Context, query string, threshold int) ([]models.DiscListing, error) {
	started := time.Now()
	results, err := s.search(ctx, query, threshold)
	if err != nil {
		s.metrics.IncFailure()
		return nil, err
	}
	s.metrics.ObserveSearch(s.scorerName, time.Since(started), len(results))
	return results, nil
}

func (s *service) search(ctx context.Context, query string, threshold int) ([]models.DiscListing, error) {
	results := []models.DiscListing{}
	if strings.TrimSpace(query) == "" {
		return results, nil
	}

	candidates, err := s.listings.List(ctx, listings.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "search: load candidates")
	}
	if len(candidates) == 0 {
		return results, nil
	}

	matches, err := MatchStrings(query, candidates, s.scorer, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search: score candidates")
	}
	for _, matched := range matches {
		found, err := s.listings.FindByBrandOrName(ctx, matched.Value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "search: load matches").
				WithDetails(map[string]any{"matched": matched.Value})
		}
		results = append(results, found...)
	}
	return results, nil
}

// MatchStrings runs the brand and name scoring passes, dedups matched strings
// first-seen-wins and drops those scoring below threshold.
func MatchStrings(query string, candidates []models.DiscListing, scorer fuzzy.Scorer, threshold int) ([]ScoredString, error) {
	brands := make([]string, 0, len(candidates))
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		brands = append(brands, c.Brand)
		names = append(names, c.Name)
	}

	brandMatches, err := fuzzy.Extract(query, brands, scorer)
	if err != nil {
		return nil, err
	}
	nameMatches, err := fuzzy.Extract(query, names, scorer)
	if err != nil {
		return nil, err
	}
	scored := append(brandMatches, nameMatches...)

	seen := make(map[string]struct{}, len(scored))
	out := []ScoredString{}
	for _, m := range scored {
		if _, dup := seen[m.Choice]; dup {
			continue
		}
		seen[m.Choice] = struct{}{}
		if m.Score >= threshold {
			out = append(out, ScoredString{Value: m.Choice, Score: m.Score})
		}
	}
	return out, nil
}

// ActiveOnly drops traded listings, keeping order.
func ActiveOnly(in []models.DiscListing) []models.DiscListing {
	return WithStatus(in, enums.ListingStatusListed)
}

// WithStatus keeps listings in the given status, keeping order.
func WithStatus(in []models.DiscListing, status enums.ListingStatus) []models.DiscListing {
	out := make([]models.DiscListing, 0, len(in))
	for _, listing := range in {
		if listing.Status == status {
			out = append(out, listing)
		}
	}
	return out
}
