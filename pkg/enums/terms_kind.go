package enums

import "fmt"

// TermsKind tags what a listing's terms text holds: a barter wish or an asking price.
type TermsKind string

const (
	TermsKindLookingFor TermsKind = "looking_for"
	TermsKindPrice      TermsKind = "price"
)

var validTermsKinds = []TermsKind{
	TermsKindLookingFor,
	TermsKindPrice,
}

// String implements fmt.Stringer.
func (k TermsKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TermsKind.
func (k TermsKind) IsValid() bool {
	for _, candidate := range validTermsKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTermsKind converts raw input into a TermsKind. Empty input defaults to looking_for.
func ParseTermsKind(value string) (TermsKind, error) {
	if value == "" {
		return TermsKindLookingFor, nil
	}
	for _, candidate := range validTermsKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid terms kind %q", value)
}
