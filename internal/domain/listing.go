package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Listing type values.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// Listing field constraints.
const (
	MinListingNameLen = 10
	MaxListingNameLen = 32
	MinRooms          = 1
	MaxRooms          = 50
	MinPrice          = 50
	MaxPrice          = 750_000_000
	MinListingImages  = 1
	MaxListingImages  = 6
)

// ListingPageSize is the fixed page size for cursor-paginated listing feeds.
const ListingPageSize = 10

// ImageURLList is an ordered list of image URLs stored as a JSON text column.
// The first entry is the listing's cover image.
type ImageURLList []string

// Value implements driver.Valuer.
func (l ImageURLList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageURLList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *ImageURLList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into ImageURLList", src)
	}
}

// Listing is a persisted record describing a property for sale or rent,
// owned by exactly one user. OwnerID and CreatedAt are set on creation and
// never change; an edit overwrites every other field through the same
// submission pipeline that created the record.
type Listing struct {
	BaseModel
	Type            string       `gorm:"size:8;not null;index" json:"type"`
	Name            string       `gorm:"size:64;not null" json:"name"`
	Bedrooms        int          `gorm:"not null" json:"bedrooms"`
	Bathrooms       int          `gorm:"not null" json:"bathrooms"`
	Parking         bool         `json:"parking"`
	Furnished       bool         `json:"furnished"`
	Offer           bool         `gorm:"index" json:"offer"`
	Location        string       `gorm:"size:512;not null" json:"location"`
	Latitude        float64      `json:"latitude"`
	Longitude       float64      `json:"longitude"`
	RegularPrice    int          `gorm:"not null" json:"regular_price"`
	DiscountedPrice int          `json:"discounted_price"`
	ImageURLs       ImageURLList `gorm:"type:text;not null" json:"image_urls"`
	OwnerID         uint         `gorm:"not null;index" json:"owner_id"`
}

// CoverURL returns the listing's primary thumbnail, the first image URL.
func (l *Listing) CoverURL() string {
	if len(l.ImageURLs) == 0 {
		return ""
	}
	return l.ImageURLs[0]
}

// ImageFile is a single image selected for upload. Open returns a fresh
// reader for the file contents; it may be called at most once per upload
// attempt and is invoked concurrently with the other files in a batch.
type ImageFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ListingForm is the structured submission form, one typed field per input.
// Address carries the user's free text and is never persisted as-is: the
// pipeline replaces it with a geocoded location or, when GeolocationEnabled
// is false, stores it verbatim alongside the manual coordinates.
type ListingForm struct {
	Type               string
	Name               string
	Bedrooms           int
	Bathrooms          int
	Parking            bool
	Furnished          bool
	Offer              bool
	Address            string
	RegularPrice       int
	DiscountedPrice    int
	GeolocationEnabled bool
	Latitude           float64
	Longitude          float64
	Images             []ImageFile
}

// ListingFilter selects exactly one criterion for a listing feed:
// a type category, the offer flag, or an owner.
type ListingFilter struct {
	Type    string // ListingTypeSale or ListingTypeRent; empty when unused
	Offer   bool
	OwnerID uint // 0 when unused
}

// Validate checks that exactly one filter criterion is set.
func (f ListingFilter) Validate() error {
	n := 0
	if f.Type != "" {
		if f.Type != ListingTypeSale && f.Type != ListingTypeRent {
			return NewAppError(CodeValidation, fmt.Sprintf("unknown listing type %q", f.Type), nil)
		}
		n++
	}
	if f.Offer {
		n++
	}
	if f.OwnerID != 0 {
		n++
	}
	if n != 1 {
		return NewAppError(CodeValidation, "exactly one of type, offer, or owner must be selected", nil)
	}
	return nil
}

// ListingCursor marks the boundary after the last item of a fetched page.
// A zero cursor means "start from the newest listing". Once a fetch comes
// back empty the cursor is exhausted and further fetches are no-ops.
type ListingCursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        uint      `json:"id"`
	Exhausted bool      `json:"exhausted"`
}

// IsZero reports whether the cursor has no boundary yet.
func (c ListingCursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID == 0 && !c.Exhausted
}

// ListingPage is one page of a cursor-paginated feed. NextCursor is the
// opaque token to pass to the next fetch; accumulation of pages is the
// caller's concern.
type ListingPage struct {
	Items      []Listing `json:"items"`
	NextCursor string    `json:"next_cursor"`
	Exhausted  bool      `json:"exhausted"`
}

// ErrTooManyImages rejects an upload batch before any transfer starts.
var ErrTooManyImages = errors.New("too many images")

// ListingRepository defines the data access interface for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id uint) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uint) error

	// ListPage returns up to limit listings matching the filter, ordered by
	// creation time descending (ID descending as tiebreak), strictly after
	// the given boundary. A nil boundary starts from the newest listing.
	ListPage(ctx context.Context, filter ListingFilter, after *ListingCursor, limit int) ([]Listing, error)

	// ListByOwner returns the owner's complete listing set, newest first.
	// Personal listing sets are small enough to skip pagination.
	ListByOwner(ctx context.Context, ownerID uint) ([]Listing, error)
}

// ListingService defines the business logic interface for listings.
type ListingService interface {
	CreateListing(ctx context.Context, identity Identity, form ListingForm) (*Listing, error)
	UpdateListing(ctx context.Context, identity Identity, id uint, form ListingForm) (*Listing, error)
	DeleteListing(ctx context.Context, identity Identity, id uint) error
	GetListing(ctx context.Context, id uint) (*Listing, error)
	Page(ctx context.Context, filter ListingFilter, cursorToken string) (*ListingPage, error)
	OwnerListings(ctx context.Context, identity Identity) ([]Listing, error)
}
