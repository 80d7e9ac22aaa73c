package listing

import (
	"io"
	"strings"
	"testing"

	"github.com/simp-lee/homemarket/internal/domain"
)

func fakeImages(n int) []domain.ImageFile {
	images := make([]domain.ImageFile, n)
	for i := range images {
		images[i] = domain.ImageFile{
			Name: "photo.jpg",
			Size: 4,
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("data")), nil
			},
		}
	}
	return images
}

func validForm() domain.ListingForm {
	return domain.ListingForm{
		Type:               domain.ListingTypeSale,
		Name:               "Cozy Loft Dwntn",
		Bedrooms:           2,
		Bathrooms:          1,
		RegularPrice:       250_000,
		Address:            "123 Main St",
		GeolocationEnabled: true,
		Images:             fakeImages(2),
	}
}

func violatedFields(violations []domain.FieldViolation) map[string]int {
	m := make(map[string]int)
	for _, v := range violations {
		m[v.Field]++
	}
	return m
}

func TestValidateFormValid(t *testing.T) {
	if violations := ValidateForm(validForm()); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*domain.ListingForm)
		wantFields []string
	}{
		{
			name:       "missing type",
			mutate:     func(f *domain.ListingForm) { f.Type = "" },
			wantFields: []string{"type"},
		},
		{
			name:       "unknown type",
			mutate:     func(f *domain.ListingForm) { f.Type = "lease" },
			wantFields: []string{"type"},
		},
		{
			name:       "missing name",
			mutate:     func(f *domain.ListingForm) { f.Name = "   " },
			wantFields: []string{"name"},
		},
		{
			name:       "name too short",
			mutate:     func(f *domain.ListingForm) { f.Name = "Tiny Flat" },
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			mutate:     func(f *domain.ListingForm) { f.Name = strings.Repeat("x", 33) },
			wantFields: []string{"name"},
		},
		{
			name:       "missing address with geolocation",
			mutate:     func(f *domain.ListingForm) { f.Address = "" },
			wantFields: []string{"address"},
		},
		{
			name: "manual coordinates skip address requirement",
			mutate: func(f *domain.ListingForm) {
				f.GeolocationEnabled = false
				f.Address = ""
			},
			wantFields: nil,
		},
		{
			name:       "zero bedrooms",
			mutate:     func(f *domain.ListingForm) { f.Bedrooms = 0 },
			wantFields: []string{"bedrooms"},
		},
		{
			name:       "too many bathrooms",
			mutate:     func(f *domain.ListingForm) { f.Bathrooms = 51 },
			wantFields: []string{"bathrooms"},
		},
		{
			name:       "price below minimum",
			mutate:     func(f *domain.ListingForm) { f.RegularPrice = 49 },
			wantFields: []string{"regular_price"},
		},
		{
			name:       "price above maximum",
			mutate:     func(f *domain.ListingForm) { f.RegularPrice = 750_000_001 },
			wantFields: []string{"regular_price"},
		},
		{
			name:       "no images",
			mutate:     func(f *domain.ListingForm) { f.Images = nil },
			wantFields: []string{"images"},
		},
		{
			name:       "too many images",
			mutate:     func(f *domain.ListingForm) { f.Images = fakeImages(7) },
			wantFields: []string{"images"},
		},
		{
			name: "discounted price not below regular",
			mutate: func(f *domain.ListingForm) {
				f.Offer = true
				f.DiscountedPrice = f.RegularPrice
			},
			wantFields: []string{"discounted_price"},
		},
		{
			name: "discounted price out of range",
			mutate: func(f *domain.ListingForm) {
				f.Offer = true
				f.DiscountedPrice = 10
			},
			wantFields: []string{"discounted_price"},
		},
		{
			name: "discounted price ignored without offer",
			mutate: func(f *domain.ListingForm) {
				f.Offer = false
				f.DiscountedPrice = 999_999_999
			},
			wantFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			violations := ValidateForm(form)

			got := violatedFields(violations)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("expected violations on %v, got %v", tt.wantFields, violations)
			}
			for _, field := range tt.wantFields {
				if got[field] == 0 {
					t.Errorf("expected a violation on %q, got %v", field, violations)
				}
			}
		})
	}
}

func TestValidateFormCollectsAllViolations(t *testing.T) {
	form := domain.ListingForm{GeolocationEnabled: true}
	violations := ValidateForm(form)

	got := violatedFields(violations)
	for _, field := range []string{"type", "name", "address", "bedrooms", "bathrooms", "regular_price", "images"} {
		if got[field] == 0 {
			t.Errorf("expected a violation on %q, got %v", field, violations)
		}
	}
}

func TestNormalizeForm(t *testing.T) {
	form := validForm()
	form.Name = "  Cozy Loft Dwntn  "
	form.Address = " 123 Main St "
	form.Offer = false
	form.DiscountedPrice = 1000

	got := normalizeForm(form)
	if got.Name != "Cozy Loft Dwntn" {
		t.Errorf("expected trimmed name, got %q", got.Name)
	}
	if got.Address != "123 Main St" {
		t.Errorf("expected trimmed address, got %q", got.Address)
	}
	if got.DiscountedPrice != 0 {
		t.Errorf("expected discounted price zeroed without offer, got %d", got.DiscountedPrice)
	}
}
