package listings

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/discswap-backend/pkg/db/models"
	"github.com/angelmondragon/discswap-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the marketplace record store.
type Service interface {
	Create(ctx context.Context, input CreateListingInput) (*models.DiscListing, error)
	GetByID(ctx context.Context, id int64) (*models.DiscListing, error)
	ListAll(ctx context.Context, filter ListFilter) ([]models.DiscListing, error)
	UpdateStatus(ctx context.Context, id int64, status enums.ListingStatus, at *time.Time) (*models.DiscListing, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceParams groups dependencies for the listings service.
type ServiceParams struct {
	Repo Repository
	Tx   txRunner
	// Clock defaults to time.Now.
	Clock func() time.Time
	// PermissiveStatus allows traded listings to move back to listed.
	PermissiveStatus bool
}

type service struct {
	repo       Repository
	tx         txRunner
	clock      func() time.Time
	permissive bool
}

// NewService builds a listings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listings repository is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:       params.Repo,
		tx:         params.Tx,
		clock:      clock,
		permissive: params.PermissiveStatus,
	}, nil
}

// Create validates and persists a new listing in the listed state.
func (s *service) Create(ctx context.Context, input CreateListingInput) (*models.DiscListing, error) {
	input = input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	listing := &models.DiscListing{
		Brand:      input.Brand,
		Name:       input.Name,
		Weight:     input.Weight,
		Color:      input.Color,
		Plastic:    input.Plastic,
		Owner:      input.Owner,
		ImageURL:   input.ImageURL,
		Terms:      input.Terms,
		TermsKind:  input.TermsKind,
		Status:     enums.ListingStatusListed,
		DateListed: s.now(),
	}

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "db: insert listing")
	}
	return created, nil
}

// GetByID returns a single listing.
func (s *service) GetByID(ctx context.Context, id int64) (*models.DiscListing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	return listing, nil
}

// ListAll returns every listing, or one owner's, in insertion order.
func (s *service) ListAll(ctx context.Context, filter ListFilter) ([]models.DiscListing, error) {
	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "db: list listings")
	}
	if listings == nil {
		listings = []models.DiscListing{}
	}
	return listings, nil
}

// UpdateStatus moves a listing between listed and traded. Re-applying the
// current status is a no-op that keeps the original date sold.
func (s *service) UpdateStatus(ctx context.Context, id int64, status enums.ListingStatus, at *time.Time) (*models.DiscListing, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing status").
			WithDetails(map[string]any{"status": status.String()})
	}

	var updated *models.DiscListing
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapFindError(err)
		}

		if current.Status == status {
			updated = current
			return nil
		}
		if !current.Status.CanTransitionTo(status) && !s.permissive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "listing status cannot move backwards").
				WithDetails(map[string]any{"from": current.Status.String(), "to": status.String()})
		}

		var dateSold *time.Time
		if status == enums.ListingStatusTraded {
			sold := s.now()
			if at != nil {
				sold = at.UTC()
			}
			dateSold = &sold
		}

		if err := repo.UpdateStatus(ctx, id, status, dateSold); err != nil {
			return mapFindError(err)
		}
		current.Status = status
		current.DateSold = dateSold
		updated = current
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update listing status")
	}
	return updated, nil
}

// Delete removes a listing permanently.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapFindError(err)
	}
	return nil
}

func (s *service) now() time.Time {
	return s.clock().UTC()
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "db: listing lookup")
}
