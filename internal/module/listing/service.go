package listing

import (
	"context"

	"github.com/simp-lee/homemarket/internal/domain"
	"github.com/simp-lee/homemarket/internal/geocode"
	"github.com/simp-lee/homemarket/internal/pkg"
	"github.com/simp-lee/homemarket/internal/storage"
)

// listingService implements domain.ListingService. Submissions run a strict
// pipeline (validate, resolve location, upload images, assemble, persist).
// Every stage failure is terminal for that attempt: nothing is retried, and
// no record is written before the earlier stages have succeeded.
type listingService struct {
	repo     domain.ListingRepository
	geo      geocode.Geocoder
	uploader *storage.BatchUploader
}

// NewListingService creates a ListingService over the given repository,
// geocoder, and image uploader.
func NewListingService(repo domain.ListingRepository, geo geocode.Geocoder, uploader *storage.BatchUploader) domain.ListingService {
	return &listingService{repo: repo, geo: geo, uploader: uploader}
}

// CreateListing runs the submission pipeline and persists a new record
// owned by the caller.
func (s *listingService) CreateListing(ctx context.Context, identity domain.Identity, form domain.ListingForm) (*domain.Listing, error) {
	return s.submit(ctx, identity, nil, form)
}

// UpdateListing re-runs the full submission pipeline against an existing
// record. Ownership is verified before any network work: a non-owner
// triggers neither a geocode call nor an upload, and the store is left
// untouched. The record's CreatedAt and OwnerID are preserved.
func (s *listingService) UpdateListing(ctx context.Context, identity domain.Identity, id uint, form domain.ListingForm) (*domain.Listing, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeOwner(existing, identity); err != nil {
		return nil, err
	}
	return s.submit(ctx, identity, existing, form)
}

// submit is the shared pipeline. existing == nil means create mode.
func (s *listingService) submit(ctx context.Context, identity domain.Identity, existing *domain.Listing, form domain.ListingForm) (*domain.Listing, error) {
	// Stage 1: validate. No network access has happened yet.
	if violations := ValidateForm(form); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}
	form = normalizeForm(form)

	// Stage 2: resolve the location, or take the manual coordinates with the
	// raw address as the location string.
	var (
		location string
		lat, lng float64
	)
	if form.GeolocationEnabled {
		point, err := s.geo.Resolve(ctx, form.Address)
		if err != nil {
			return nil, err
		}
		location = point.FormattedAddress
		lat, lng = point.Lat, point.Lng
	} else {
		location = form.Address
		lat, lng = form.Latitude, form.Longitude
	}

	// Stage 3: upload the image batch. A failure here leaves no listing
	// record behind.
	urls, err := s.uploader.Upload(ctx, identity.UserID, form.Images)
	if err != nil {
		return nil, err
	}

	// Stage 4: assemble. The raw file list and free-text address are
	// dropped in favor of image URLs and the resolved location.
	record := &domain.Listing{
		Type:            form.Type,
		Name:            form.Name,
		Bedrooms:        form.Bedrooms,
		Bathrooms:       form.Bathrooms,
		Parking:         form.Parking,
		Furnished:       form.Furnished,
		Offer:           form.Offer,
		Location:        location,
		Latitude:        lat,
		Longitude:       lng,
		RegularPrice:    form.RegularPrice,
		DiscountedPrice: form.DiscountedPrice,
		ImageURLs:       urls,
		OwnerID:         identity.UserID,
	}

	// Stage 5: persist in a single write.
	if existing == nil {
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	}

	record.ID = existing.ID
	record.OwnerID = existing.OwnerID
	record.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteListing removes the caller's listing. Images already in storage are
// intentionally left in place (accepted gap). Ownership is verified before
// any mutation.
func (s *listingService) DeleteListing(ctx context.Context, identity domain.Identity, id uint) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeOwner(existing, identity); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// GetListing retrieves a listing by ID.
func (s *listingService) GetListing(ctx context.Context, id uint) (*domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// Page returns one fixed-size page of the feed selected by filter, resuming
// after cursorToken. An exhausted cursor short-circuits without touching
// the store. The cursor only becomes exhausted once a fetch comes back
// empty; a short final page still yields a live cursor.
func (s *listingService) Page(ctx context.Context, filter domain.ListingFilter, cursorToken string) (*domain.ListingPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	cursor, err := pkg.DecodeCursor(cursorToken)
	if err != nil {
		return nil, err
	}
	if cursor.Exhausted {
		return &domain.ListingPage{
			Items:      []domain.Listing{},
			NextCursor: pkg.EncodeCursor(cursor),
			Exhausted:  true,
		}, nil
	}

	var after *domain.ListingCursor
	if !cursor.IsZero() {
		after = &cursor
	}

	items, err := s.repo.ListPage(ctx, filter, after, domain.ListingPageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		// Keep the wire shape stable: an empty page serializes as [].
		items = []domain.Listing{}
	}

	next := cursor
	if len(items) == 0 {
		next.Exhausted = true
	} else {
		last := items[len(items)-1]
		next = domain.ListingCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return &domain.ListingPage{
		Items:      items,
		NextCursor: pkg.EncodeCursor(next),
		Exhausted:  next.Exhausted,
	}, nil
}

// OwnerListings returns the caller's complete listing set, newest first.
// Profile views are deliberately unpaginated: personal sets stay small.
func (s *listingService) OwnerListings(ctx context.Context, identity domain.Identity) ([]domain.Listing, error) {
	return s.repo.ListByOwner(ctx, identity.UserID)
}

// AuthorizeOwner checks that identity owns the record. A mismatch aborts
// the caller's flow with ErrForbidden before any side effect.
func AuthorizeOwner(record *domain.Listing, identity domain.Identity) error {
	if record == nil {
		return domain.ErrNotFound
	}
	if record.OwnerID != identity.UserID {
		return domain.ErrForbidden
	}
	return nil
}
