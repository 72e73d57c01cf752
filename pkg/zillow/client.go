package zillow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mchmarny/reval/pkg/net"
)

const (
	// HostDefault is the RapidAPI host for the Zillow listing API.
	HostDefault = "zillow-com1.p.rapidapi.com"

	searchPath  = "/propertyExtendedSearch"
	detailPath  = "/property"
	similarPath = "/similarSales"

	apiKeyHeader  = "X-RapidAPI-Key"
	apiHostHeader = "X-RapidAPI-Host"

	searchHomeType = "Houses"
)

// Client fetches listing data from the third-party listings API.
type Client struct {
	baseURL string
	host    string
	apiKey  string
	bearer  bool
	hc      *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHost overrides the default API host.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" {
			c.host = host
			c.baseURL = "https://" + host
		}
	}
}

// WithBaseURL overrides the full base URL (scheme included).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithBearerToken switches the client to direct bridge-style access using
// a static bearer credential instead of the RapidAPI key headers.
func WithBearerToken(ctx context.Context, token string) Option {
	return func(c *Client) {
		if token != "" {
			c.bearer = true
			c.hc = net.GetOAuthClient(ctx, token)
		}
	}
}

// NewClient returns a listing API client. The RapidAPI key is required
// unless a bearer token option is supplied.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: "https://" + HostDefault,
		host:    HostDefault,
		apiKey:  apiKey,
		hc:      net.NewHTTPClient(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" && !c.bearer {
		return nil, errors.New("apiKey is required")
	}

	return c, nil
}

// SearchProperties searches listings by street address, city, and state.
func (c *Client) SearchProperties(ctx context.Context, address, city, state string) (*SearchResult, error) {
	if address == "" || city == "" || state == "" {
		return nil, errors.New("address, city, and state are all required")
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%s, %s, %s", address, city, state))
	q.Set("home_type", searchHomeType)

	res, err := get[SearchResult](ctx, c, searchPath, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	return res, nil
}

// GetProperty returns detailed listing data for the given property ID.
func (c *Client) GetProperty(ctx context.Context, zpid string) (*Property, error) {
	if zpid == "" {
		return nil, errors.New("zpid is required")
	}

	q := url.Values{}
	q.Set("zpid", zpid)

	p, err := get[Property](ctx, c, detailPath, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get property %s: %w", zpid, err)
	}
	if p.ZPID == "" {
		p.ZPID = zpid
	}
	return p, nil
}

// GetComparableSales returns recently sold comparables for the given
// property ID.
func (c *Client) GetComparableSales(ctx context.Context, zpid string) (*Comparables, error) {
	if zpid == "" {
		return nil, errors.New("zpid is required")
	}

	q := url.Values{}
	q.Set("zpid", zpid)

	comps, err := get[Comparables](ctx, c, similarPath, q)
	if err != nil {
		return nil, fmt.Errorf("failed to get comparable sales for %s: %w", zpid, err)
	}
	return comps, nil
}

func get[T any](ctx context.Context, c *Client, path string, q url.Values) (*T, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())

	header := http.Header{}
	if c.apiKey != "" {
		header.Set(apiKeyHeader, c.apiKey)
		header.Set(apiHostHeader, c.host)
	}

	var target T
	if err := net.GetJSON(ctx, c.hc, u, header, &target); err != nil {
		return nil, err
	}
	return &target, nil
}
