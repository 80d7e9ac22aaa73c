package listing

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/homemarket/internal/domain"
	"github.com/simp-lee/homemarket/internal/pkg"
)

// listingRepository implements domain.ListingRepository using GORM.
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a ListingRepository backed by the given GORM database.
func NewListingRepository(db *gorm.DB) domain.ListingRepository {
	return &listingRepository{db: db}
}

// Create inserts a new listing. The store assigns ID and CreatedAt.
func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a listing by its primary key.
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &listing, nil
}

// Update overwrites an existing listing by ID in a single transactional
// write. The row must exist; a vanished record surfaces as not found rather
// than an implicit re-insert.
func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Listing{}).Where("id = ?", listing.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return tx.Save(listing).Error
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes a listing by ID.
func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Listing{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPage returns up to limit listings matching the filter, newest first,
// strictly after the cursor boundary.
func (r *listingRepository) ListPage(ctx context.Context, filter domain.ListingFilter, after *domain.ListingCursor, limit int) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := r.db.WithContext(ctx).
		Scopes(
			pkg.FilterListings(filter),
			pkg.AfterCursor(after),
			pkg.ByRecency(),
		).
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, mapError(err)
	}
	return listings, nil
}

// ListByOwner returns the owner's complete listing set, newest first.
func (r *listingRepository) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := r.db.WithContext(ctx).
		Scopes(
			pkg.FilterListings(domain.ListingFilter{OwnerID: ownerID}),
			pkg.ByRecency(),
		).
		Find(&listings).Error
	if err != nil {
		return nil, mapError(err)
	}
	return listings, nil
}

// mapError converts GORM errors to domain errors. Domain errors produced
// inside transactions pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not all GORM dialectors translate driver-level errors to
// gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
