package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Product struct {
	SKU     string  `json:"sku"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	InStock int     `json:"instock"`
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnavailable     = errors.New("catalogue unavailable")
)

// Client resolves SKUs against the catalogue service. No retries: a failed
// lookup fails the whole operation, the circuit breaker just keeps a dead
// catalogue from eating a timeout per request.
type Client struct {
	baseURL string
	hc      *http.Client
	breaker *gobreaker.CircuitBreaker[*Product]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[*Product](gobreaker.Settings{
			Name: "catalogue",
			// An unknown SKU is a valid answer, not a catalogue outage.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrProductNotFound)
			},
		}),
	}
}

func (c *Client) Lookup(ctx context.Context, sku string) (*Product, error) {
	product, err := c.breaker.Execute(func() (*Product, error) {
		return c.lookup(ctx, sku)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return product, nil
}

func (c *Client) lookup(ctx context.Context, sku string) (*Product, error) {
	endpoint := c.baseURL + "/product/" + url.PathEscape(sku)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: catalogue returned %d", ErrUnavailable, resp.StatusCode)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return &product, nil
}
