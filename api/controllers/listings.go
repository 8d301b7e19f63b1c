package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/angelmondragon/discswap-backend/api/responses"
	"github.com/angelmondragon/discswap-backend/api/validators"
	"github.com/angelmondragon/discswap-backend/internal/listings"
	"github.com/angelmondragon/discswap-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
)

const (
	listingIDParam = "listingId"
	maxOwnerLength = 128
)

type createListingRequest struct {
	Brand     string  `json:"brand"`
	Name      string  `json:"name"`
	Weight    int     `json:"weight"`
	Color     string  `json:"color"`
	Plastic   string  `json:"plastic"`
	Owner     string  `json:"owner"`
	ImageURL  *string `json:"image_url,omitempty"`
	Terms     string  `json:"terms"`
	TermsKind string  `json:"terms_kind,omitempty"`

	// Store-assigned fields are accepted and dropped: a new listing always
	// starts listed with the store's id and date_listed.
	ID         json.RawMessage `json:"id,omitempty"`
	Status     json.RawMessage `json:"status,omitempty"`
	DateListed json.RawMessage `json:"date_listed,omitempty"`
	DateSold   json.RawMessage `json:"date_sold,omitempty"`
}

func (r createListingRequest) toInput() listings.CreateListingInput {
	return listings.CreateListingInput{
		Brand:     r.Brand,
		Name:      r.Name,
		Weight:    r.Weight,
		Color:     r.Color,
		Plastic:   r.Plastic,
		Owner:     r.Owner,
		ImageURL:  r.ImageURL,
		Terms:     r.Terms,
		TermsKind: enums.TermsKind(r.TermsKind),
	}
}

type updateStatusRequest struct {
	Status   string     `json:"status" validate:"required,oneof=listed traded"`
	DateSold *time.Time `json:"date_sold,omitempty"`
}

// ListingCreate stores a new listing and answers 201 with it.
func ListingCreate(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createListingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithListingID(r.Context(), listing.ID)
		logg.Info(logg.WithOwner(ctx, listing.Owner), "listing.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, listings.NewListingDTO(*listing))
	}
}

// ListingList returns every listing, or only those of ?owner=.
func ListingList(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := listings.ListFilter{
			Owner: validators.SanitizeString(r.URL.Query().Get("owner"), maxOwnerLength),
		}
		rows, err := svc.ListAll(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings.NewListingDTOs(rows))
	}
}

func ListingGet(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings.NewListingDTO(*listing))
	}
}

// ListingUpdateStatus marks a listing traded (or listed again when allowed).
func ListingUpdateStatus(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseListingStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing status"))
			return
		}

		listing, err := svc.UpdateStatus(r.Context(), id, status, req.DateSold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(logg.WithListingID(r.Context(), id), map[string]any{"status": status.String()})
		logg.Info(ctx, "listing.status_updated")
		responses.WriteSuccess(w, listings.NewListingDTO(*listing))
	}
}

func ListingDelete(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(logg.WithListingID(r.Context(), id), "listing.deleted")
		responses.WriteNoContent(w)
	}
}
