package listings

import (
	"reflect"
	"strings"

	"github.com/angelmondragon/discswap-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/discswap-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// CreateListingInput carries the caller-supplied attributes of a new listing.
// Status, date listed and date sold are never taken from the caller.
type CreateListingInput struct {
	Brand     string          `field:"brand" validate:"required"`
	Name      string          `field:"name" validate:"required"`
	Weight    int             `field:"weight" validate:"gt=0"`
	Color     string          `field:"color" validate:"required"`
	Plastic   string          `field:"plastic" validate:"required"`
	Owner     string          `field:"owner" validate:"required"`
	ImageURL  *string         `field:"image_url" validate:"omitempty,url"`
	Terms     string          `field:"terms" validate:"required"`
	TermsKind enums.TermsKind `field:"terms_kind" validate:"omitempty,oneof=looking_for price"`
}

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// normalize trims every text field and drops a blank image url.
func (in CreateListingInput) normalize() CreateListingInput {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	in.Plastic = strings.TrimSpace(in.Plastic)
	in.Owner = strings.TrimSpace(in.Owner)
	in.Terms = strings.TrimSpace(in.Terms)
	in.TermsKind = enums.TermsKind(strings.TrimSpace(string(in.TermsKind)))
	if in.ImageURL != nil {
		trimmed := strings.TrimSpace(*in.ImageURL)
		if trimmed == "" {
			in.ImageURL = nil
		} else {
			in.ImageURL = &trimmed
		}
	}
	if in.TermsKind == "" {
		in.TermsKind = enums.TermsKindLookingFor
	}
	return in
}

func (in CreateListingInput) validate() error {
	err := inputValidator.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing")
	}
	details := map[string]string{}
	for _, fe := range errs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing").WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "url":
		return "must be a valid url"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}
