// Package crossref implements the DOI metadata source: validation of DOI
// strings and lookups against the CrossRef works registry.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/larocca/refdesk/internal/reference"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps us inside CrossRef's polite-pool expectations.
	RateLimit = 5.0
)

// Client is a rate-limited HTTP client for the CrossRef works API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMailto attaches a contact address to each request, which admits the
// client to CrossRef's polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new CrossRef client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup fetches metadata for a DOI and maps it into a partial record.
// Malformed DOIs are rejected with ErrInvalidDOI before any network I/O;
// registry failures surface as ErrLookup.
func (c *Client) Lookup(ctx context.Context, doi string) (reference.Partial, error) {
	doi = NormalizeDOI(doi)
	if !IsValidDOI(doi) {
		return reference.Partial{}, fmt.Errorf("%w: %q", ErrInvalidDOI, doi)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return reference.Partial{}, err
	}

	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	if c.mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.mailto)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return reference.Partial{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reference.Partial{}, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return reference.Partial{}, &APIError{StatusCode: resp.StatusCode, DOI: doi}
	}

	var envelope worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return reference.Partial{}, fmt.Errorf("%w: decoding response: %v", ErrLookup, err)
	}
	if envelope.Message == nil {
		return reference.Partial{}, fmt.Errorf("%w: no work record for %s", ErrLookup, doi)
	}

	return mapWork(doi, envelope.Message), nil
}

// worksResponse is the envelope of a CrossRef works lookup.
type worksResponse struct {
	Message *work `json:"message"`
}

// work is the subset of a CrossRef work record we consume.
type work struct {
	Title          []string      `json:"title"`
	Author         []contributor `json:"author"`
	Editor         []contributor `json:"editor"`
	Published      partialDate   `json:"published"`
	ContainerTitle []string      `json:"container-title"`
	Abstract       string        `json:"abstract"`
	Type           string        `json:"type"`
	Volume         string        `json:"volume"`
	Issue          string        `json:"issue"`
	Page           string        `json:"page"`
	Publisher      string        `json:"publisher"`
	ISBN           []string      `json:"ISBN"`
	ISSN           []string      `json:"ISSN"`
	URL            string        `json:"URL"`
}

// contributor is a CrossRef author or editor entry.
type contributor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// partialDate holds CrossRef's date-parts representation.
type partialDate struct {
	DateParts [][]int `json:"date-parts"`
}

// Year returns the year component, or 0 if absent.
func (d partialDate) Year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}
