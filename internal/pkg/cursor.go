package pkg

import (
	"encoding/base64"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/simp-lee/homemarket/internal/domain"
)

// EncodeCursor serializes a listing cursor into an opaque URL-safe token.
func EncodeCursor(c domain.ListingCursor) string {
	b, err := json.Marshal(c)
	if err != nil {
		// ListingCursor contains only marshalable fields.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a token produced by EncodeCursor. An empty token
// decodes to the zero cursor (start from the newest listing).
func DecodeCursor(token string) (domain.ListingCursor, error) {
	if token == "" {
		return domain.ListingCursor{}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return domain.ListingCursor{}, domain.NewAppError(domain.CodeValidation, "malformed cursor", err)
	}
	var c domain.ListingCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return domain.ListingCursor{}, domain.NewAppError(domain.CodeValidation, "malformed cursor", err)
	}
	return c, nil
}

// ByRecency returns a GORM scope ordering listings by creation time
// descending, with ID descending as a stable tiebreak for equal timestamps.
func ByRecency() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}
}

// AfterCursor returns a GORM scope restricting a recency-ordered query to
// rows strictly after the given boundary. The expanded comparison (instead
// of a row-value tuple) keeps the predicate portable across SQLite and
// PostgreSQL.
func AfterCursor(after *domain.ListingCursor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if after == nil || after.IsZero() {
			return db
		}
		return db.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}
}

// FilterListings returns a GORM scope applying exactly one feed criterion.
// The filter is expected to be validated by the caller.
func FilterListings(f domain.ListingFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case f.Type != "":
			return db.Where("type = ?", f.Type)
		case f.Offer:
			return db.Where("offer = ?", true)
		case f.OwnerID != 0:
			return db.Where("owner_id = ?", f.OwnerID)
		default:
			return db
		}
	}
}
