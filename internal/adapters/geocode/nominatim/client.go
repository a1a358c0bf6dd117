package nominatim

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"livestock-traceability/internal/platform/httpclient"
	"livestock-traceability/internal/ports/geocode"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	defaultTimeout = 8 * time.Second

	// Nominatim exige un User-Agent identificable.
	userAgent = "livestock-traceability/1.0"
)

// Client implementa geocode.Resolver contra la API pública de Nominatim (OSM).
type Client struct {
	http *httpclient.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("nominatim: %w", err)
	}
	return &Client{http: hc}, nil
}

// NewWithTransport permite inyectar un RoundTripper (tests).
func NewWithTransport(tr http.RoundTripper) *Client {
	c := httpclient.NewWithTransport(defaultTimeout, tr)
	c.BaseURL = defaultBaseURL
	return &Client{http: c}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Resolve(ctx context.Context, address string) (geocode.Coordinates, error) {
	if address == "" {
		return geocode.Coordinates{}, geocode.ErrNoMatch
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", address)
	q.Set("limit", "1")

	var results []searchResult
	err := c.http.DoJSON(
		ctx,
		http.MethodGet,
		"/search?"+q.Encode(),
		map[string]string{"User-Agent": userAgent},
		nil,
		&results,
	)
	if err != nil {
		return geocode.Coordinates{}, fmt.Errorf("nominatim: search: %w", err)
	}
	if len(results) == 0 {
		return geocode.Coordinates{}, geocode.ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geocode.Coordinates{}, fmt.Errorf("nominatim: lat inválida: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geocode.Coordinates{}, fmt.Errorf("nominatim: lon inválida: %w", err)
	}

	return geocode.Coordinates{Lat: lat, Lon: lon}, nil
}
