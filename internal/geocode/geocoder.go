// Package geocode resolves free-text street addresses to geographic
// coordinates and a canonical formatted address.
package geocode

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nf/geocode"

	"github.com/simp-lee/homemarket/internal/domain"
)

// Point is a successfully resolved address.
type Point struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
}

// Geocoder resolves a free-text address in a single network round trip.
// A failure is terminal for the caller's current attempt; no retries happen
// at this layer.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Point, error)
}

// googleGeocoder resolves addresses through the Google geocoding API.
type googleGeocoder struct {
	region string
	logger *slog.Logger

	// lookup performs the network round trip; replaceable in tests.
	lookup func(req *geocode.Request) (*geocode.Response, error)
}

// NewGoogle creates a Geocoder backed by the Google geocoding service.
// region biases results ("us", "kz", ...) and may be empty.
func NewGoogle(region string, logger *slog.Logger) Geocoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &googleGeocoder{
		region: region,
		logger: logger,
		lookup: func(req *geocode.Request) (*geocode.Response, error) {
			return req.Lookup(nil)
		},
	}
}

// Resolve implements Geocoder. It fails with CodeAddressUnresolvable when the
// service reports zero results or when the returned formatted address is
// malformed: upstream partial responses have been observed to splice the
// literal token "undefined" into the formatted string.
func (g *googleGeocoder) Resolve(ctx context.Context, address string) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}

	req := &geocode.Request{
		Provider: geocode.GOOGLE,
		Region:   g.region,
		Address:  address,
	}

	resp, err := g.lookup(req)
	if err != nil {
		return Point{}, domain.NewAppError(domain.CodeAddressUnresolvable, "geocoding request failed", err)
	}

	return pointFromResponse(resp)
}

// pointFromResponse maps the provider response to a Point or a typed failure.
func pointFromResponse(resp *geocode.Response) (Point, error) {
	if resp == nil || resp.Status != "OK" ||
		resp.GoogleResponse == nil || len(resp.GoogleResponse.Results) == 0 {
		return Point{}, domain.ErrAddressUnresolvable
	}

	best := resp.GoogleResponse.Results[0]
	formatted := best.Address
	if formatted == "" || strings.Contains(formatted, "undefined") {
		return Point{}, domain.ErrAddressUnresolvable
	}

	return Point{
		Lat:              best.Geometry.Location.Lat,
		Lng:              best.Geometry.Location.Lng,
		FormattedAddress: formatted,
	}, nil
}
