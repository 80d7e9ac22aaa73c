package listing

import "mime/multipart"

// listingFormRequest is the multipart form shape for create and edit
// submissions. No binding constraints here beyond type coercion: every
// business rule lives in ValidateForm so violations are collected in one
// pass per field instead of failing on the first bad input.
type listingFormRequest struct {
	Type               string                  `form:"type"`
	Name               string                  `form:"name"`
	Bedrooms           int                     `form:"bedrooms"`
	Bathrooms          int                     `form:"bathrooms"`
	Parking            bool                    `form:"parking"`
	Furnished          bool                    `form:"furnished"`
	Offer              bool                    `form:"offer"`
	Address            string                  `form:"address"`
	RegularPrice       int                     `form:"regular_price"`
	DiscountedPrice    int                     `form:"discounted_price"`
	GeolocationEnabled *bool                   `form:"geolocation_enabled"`
	Latitude           float64                 `form:"latitude"`
	Longitude          float64                 `form:"longitude"`
	Images             []*multipart.FileHeader `form:"images"`
}

// SubmittedResponse points the client at the persisted listing's detail
// view, keyed by type and id.
type SubmittedResponse struct {
	ID   uint   `json:"id"`
	Type string `json:"type"`
}
