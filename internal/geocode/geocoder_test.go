package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nf/geocode"

	"github.com/simp-lee/homemarket/internal/domain"
)

// googleResponse builds a provider response from the raw Google geocoding
// API JSON body, the same way the client library decodes it.
func googleResponse(t *testing.T, status, body string) *geocode.Response {
	t.Helper()
	resp := &geocode.Response{Status: status}
	if err := json.Unmarshal([]byte(body), &resp.GoogleResponse); err != nil {
		t.Fatalf("decode google response: %v", err)
	}
	return resp
}

func testGeocoder(lookup func(*geocode.Request) (*geocode.Response, error)) *googleGeocoder {
	g := NewGoogle("us", nil).(*googleGeocoder)
	g.lookup = lookup
	return g
}

func TestResolveSuccess(t *testing.T) {
	var gotReq *geocode.Request
	g := testGeocoder(func(req *geocode.Request) (*geocode.Response, error) {
		gotReq = req
		return googleResponse(t, "OK", `{
			"status": "OK",
			"results": [{
				"formatted_address": "123 Main St, Springfield, IL, USA",
				"geometry": {"location": {"lat": 39.78, "lng": -89.65}}
			}]
		}`), nil
	})

	point, err := g.Resolve(context.Background(), "123 Main St Springfield")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if point.FormattedAddress != "123 Main St, Springfield, IL, USA" {
		t.Errorf("unexpected formatted address %q", point.FormattedAddress)
	}
	if point.Lat != 39.78 || point.Lng != -89.65 {
		t.Errorf("unexpected coordinates %f,%f", point.Lat, point.Lng)
	}

	if gotReq.Provider != geocode.GOOGLE {
		t.Errorf("expected the google provider, got %v", gotReq.Provider)
	}
	if gotReq.Region != "us" {
		t.Errorf("expected region bias %q, got %q", "us", gotReq.Region)
	}
	if gotReq.Address != "123 Main St Springfield" {
		t.Errorf("expected query address passed through, got %q", gotReq.Address)
	}
}

func TestResolveFailures(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(*geocode.Request) (*geocode.Response, error)
	}{
		{
			name: "transport error",
			lookup: func(*geocode.Request) (*geocode.Response, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name: "nil response",
			lookup: func(*geocode.Request) (*geocode.Response, error) {
				return nil, nil
			},
		},
		{
			name: "zero results",
			lookup: func(req *geocode.Request) (*geocode.Response, error) {
				return googleResponse(t, "ZERO_RESULTS", `{"status": "ZERO_RESULTS", "results": []}`), nil
			},
		},
		{
			name: "ok status with empty results",
			lookup: func(req *geocode.Request) (*geocode.Response, error) {
				return googleResponse(t, "OK", `{"status": "OK", "results": []}`), nil
			},
		},
		{
			name: "undefined token in formatted address",
			lookup: func(req *geocode.Request) (*geocode.Response, error) {
				return googleResponse(t, "OK", `{
					"status": "OK",
					"results": [{
						"formatted_address": "undefined, Springfield, IL",
						"geometry": {"location": {"lat": 1, "lng": 2}}
					}]
				}`), nil
			},
		},
		{
			name: "empty formatted address",
			lookup: func(req *geocode.Request) (*geocode.Response, error) {
				return googleResponse(t, "OK", `{
					"status": "OK",
					"results": [{
						"formatted_address": "",
						"geometry": {"location": {"lat": 1, "lng": 2}}
					}]
				}`), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGeocoder(tt.lookup)
			_, err := g.Resolve(context.Background(), "somewhere")
			if !domain.IsAddressUnresolvable(err) {
				t.Fatalf("expected address unresolvable, got %v", err)
			}
		})
	}
}

func TestResolveCanceledContext(t *testing.T) {
	g := testGeocoder(func(*geocode.Request) (*geocode.Response, error) {
		t.Fatal("lookup must not run with a canceled context")
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Resolve(ctx, "somewhere"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
