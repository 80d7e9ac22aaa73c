package listing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/homemarket/internal/domain"
)

// ValidateForm checks every constraint on a submission form and returns all
// violations found, not just the first, so a client can highlight every
// invalid field in one pass. It is a pure function: no side effects, no
// network access.
//
// Checks run in order: field presence, numeric ranges, name length, image
// count, and price ordering when an offer is made.
func ValidateForm(f domain.ListingForm) []domain.FieldViolation {
	var violations []domain.FieldViolation
	add := func(field, msg string) {
		violations = append(violations, domain.FieldViolation{Field: field, Message: msg})
	}

	switch f.Type {
	case domain.ListingTypeSale, domain.ListingTypeRent:
	case "":
		add("type", "type is required")
	default:
		add("type", fmt.Sprintf("type must be %q or %q", domain.ListingTypeSale, domain.ListingTypeRent))
	}

	if strings.TrimSpace(f.Name) == "" {
		add("name", "name is required")
	}
	if f.GeolocationEnabled && strings.TrimSpace(f.Address) == "" {
		add("address", "address is required")
	}

	if f.Bedrooms < domain.MinRooms || f.Bedrooms > domain.MaxRooms {
		add("bedrooms", fmt.Sprintf("bedrooms must be between %d and %d", domain.MinRooms, domain.MaxRooms))
	}
	if f.Bathrooms < domain.MinRooms || f.Bathrooms > domain.MaxRooms {
		add("bathrooms", fmt.Sprintf("bathrooms must be between %d and %d", domain.MinRooms, domain.MaxRooms))
	}
	if f.RegularPrice < domain.MinPrice || f.RegularPrice > domain.MaxPrice {
		add("regular_price", fmt.Sprintf("regular price must be between %d and %d", domain.MinPrice, domain.MaxPrice))
	}

	if name := strings.TrimSpace(f.Name); name != "" {
		if n := utf8.RuneCountInString(name); n < domain.MinListingNameLen || n > domain.MaxListingNameLen {
			add("name", fmt.Sprintf("name must be between %d and %d characters", domain.MinListingNameLen, domain.MaxListingNameLen))
		}
	}

	if n := len(f.Images); n < domain.MinListingImages || n > domain.MaxListingImages {
		add("images", fmt.Sprintf("between %d and %d images are required", domain.MinListingImages, domain.MaxListingImages))
	}

	if f.Offer {
		if f.DiscountedPrice < domain.MinPrice || f.DiscountedPrice > domain.MaxPrice {
			add("discounted_price", fmt.Sprintf("discounted price must be between %d and %d", domain.MinPrice, domain.MaxPrice))
		} else if f.DiscountedPrice >= f.RegularPrice {
			add("discounted_price", "discounted price must be less than regular price")
		}
	}

	return violations
}

// normalizeForm trims the fields the validator compared after trimming, so
// the assembled record never carries stray whitespace.
func normalizeForm(f domain.ListingForm) domain.ListingForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Address = strings.TrimSpace(f.Address)
	if !f.Offer {
		f.DiscountedPrice = 0
	}
	return f
}
