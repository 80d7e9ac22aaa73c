package listing

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/homemarket/internal/domain"
	"github.com/simp-lee/homemarket/internal/middleware"
	"github.com/simp-lee/homemarket/internal/pkg"
)

// ListingHandler handles REST API requests for the listing resource.
type ListingHandler struct {
	svc domain.ListingService
}

// NewListingHandler creates a new ListingHandler with the given service.
func NewListingHandler(svc domain.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

// Create handles POST /api/v1/listings (multipart).
func (h *ListingHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	created, err := h.svc.CreateListing(c.Request.Context(), identity, form)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, SubmittedResponse{ID: created.ID, Type: created.Type})
}

// Update handles PUT /api/v1/listings/:id (multipart).
func (h *ListingHandler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	updated, err := h.svc.UpdateListing(c.Request.Context(), identity, id, form)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, SubmittedResponse{ID: updated.ID, Type: updated.Type})
}

// Delete handles DELETE /api/v1/listings/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.DeleteListing(c.Request.Context(), identity, id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// Get handles GET /api/v1/listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	found, err := h.svc.GetListing(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, found)
}

// Page handles GET /api/v1/listings?type=rent|sale or ?offer=true, with an
// optional cursor query parameter resuming a previous page.
func (h *ListingHandler) Page(c *gin.Context) {
	filter := domain.ListingFilter{
		Type:  c.Query("type"),
		Offer: c.Query("offer") == "true",
	}

	page, err := h.svc.Page(c.Request.Context(), filter, c.Query("cursor"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, page)
}

// OwnerListings handles GET /api/v1/users/me/listings.
func (h *ListingHandler) OwnerListings(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	items, err := h.svc.OwnerListings(c.Request.Context(), identity)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, items)
}

// bindForm binds the multipart submission form and adapts the file headers
// into domain image files. Binding failures (malformed numbers and the
// like) are reported immediately; business validation happens in the
// service.
func (h *ListingHandler) bindForm(c *gin.Context) (domain.ListingForm, bool) {
	var req listingFormRequest
	if !pkg.BindAndValidate(c, &req) {
		return domain.ListingForm{}, false
	}

	// Geolocation defaults to enabled; the manual-coordinates path must be
	// requested explicitly.
	geolocationEnabled := true
	if req.GeolocationEnabled != nil {
		geolocationEnabled = *req.GeolocationEnabled
	}

	images := make([]domain.ImageFile, len(req.Images))
	for i, fh := range req.Images {
		images[i] = domain.ImageFile{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		}
	}

	return domain.ListingForm{
		Type:               req.Type,
		Name:               req.Name,
		Bedrooms:           req.Bedrooms,
		Bathrooms:          req.Bathrooms,
		Parking:            req.Parking,
		Furnished:          req.Furnished,
		Offer:              req.Offer,
		Address:            req.Address,
		RegularPrice:       req.RegularPrice,
		DiscountedPrice:    req.DiscountedPrice,
		GeolocationEnabled: geolocationEnabled,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Images:             images,
	}, true
}

// parseID extracts the numeric :id path parameter.
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid listing id")
	}
	return uint(id), nil
}
