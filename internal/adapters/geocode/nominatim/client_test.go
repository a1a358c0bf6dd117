package nominatim

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"livestock-traceability/internal/ports/geocode"
)

// roundTripFunc permite inyectar respuestas sin red.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Resolve(t *testing.T) {
	var gotReq *http.Request
	c := NewWithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotReq = r
		return jsonResponse(http.StatusOK, `[{"lat":"-7.1638","lon":"-78.5003"}]`), nil
	}))

	coords, err := c.Resolve(context.Background(), "Av. Los Incas 123, Cajamarca")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if coords.Lat != -7.1638 || coords.Lon != -78.5003 {
		t.Fatalf("coords = %+v", coords)
	}

	if gotReq == nil {
		t.Fatalf("expected request to be sent")
	}
	q := gotReq.URL.Query()
	if q.Get("format") != "json" || q.Get("limit") != "1" {
		t.Fatalf("unexpected query: %s", gotReq.URL.RawQuery)
	}
	if q.Get("q") != "Av. Los Incas 123, Cajamarca" {
		t.Fatalf("unexpected q param: %q", q.Get("q"))
	}
	// Nominatim exige identificarse
	if gotReq.Header.Get("User-Agent") != userAgent {
		t.Fatalf("unexpected user agent: %q", gotReq.Header.Get("User-Agent"))
	}
}

func TestClient_Resolve_NoMatch(t *testing.T) {
	c := NewWithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	}))

	_, err := c.Resolve(context.Background(), "dirección inexistente")
	if !errors.Is(err, geocode.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestClient_Resolve_EmptyAddress(t *testing.T) {
	c := NewWithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected for empty address")
		return nil, nil
	}))

	if _, err := c.Resolve(context.Background(), ""); !errors.Is(err, geocode.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestClient_Resolve_UpstreamError(t *testing.T) {
	c := NewWithTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `{"error":"overloaded"}`), nil
	}))

	if _, err := c.Resolve(context.Background(), "Cajamarca"); err == nil {
		t.Fatalf("expected error on 503")
	}
}
