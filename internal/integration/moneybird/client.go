// Package moneybird implements the accounting gateway against the Moneybird
// v2 REST API.
package moneybird

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

const (
	// DefaultBaseURL is the production Moneybird API endpoint.
	DefaultBaseURL = "https://moneybird.com/api/v2"

	// DefaultPerPage is the page size requested from the API.
	DefaultPerPage = 100

	// DefaultMaxPages bounds the pagination loop. A resource with more pages
	// than this fails the sync instead of looping forever on a misbehaving
	// Link header.
	DefaultMaxPages = 200

	defaultTimeout = 30 * time.Second
)

// Config holds the connection settings for one administration.
type Config struct {
	BaseURL          string
	Token            string
	AdministrationID string
	PerPage          int
	MaxPages         int
}

// Client fetches resource collections from Moneybird. It implements the
// adapter.AccountingGateway interface.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new Moneybird client. Zero config fields fall back to
// the defaults.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.PerPage <= 0 {
		config.PerPage = DefaultPerPage
	}
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultMaxPages
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		config:     config,
	}
}

// FetchAll retrieves every document of a resource, following the Link header
// page by page until the API stops advertising a next page.
func (c *Client) FetchAll(ctx context.Context, resource entity.Resource) ([]adapter.StoredDocument, error) {
	spec, ok := resourceSpecs[resource]
	if !ok {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeUnknownResource,
			fmt.Sprintf("no API mapping for resource %q", resource),
			domainerror.ErrUnknownResource,
		)
	}

	var docs []adapter.StoredDocument
	for page := 1; ; page++ {
		if page > c.config.MaxPages {
			return nil, domainerror.NewSyncError(
				domainerror.ErrCodeUpstreamFailure,
				fmt.Sprintf("resource %s exceeds %d pages", resource, c.config.MaxPages),
				nil,
			)
		}

		raws, hasNext, err := c.fetchPage(ctx, spec.path, page)
		if err != nil {
			return nil, err
		}

		for _, raw := range raws {
			doc, err := spec.index(raw)
			if err != nil {
				return nil, domainerror.NewSyncError(
					domainerror.ErrCodeUpstreamFailure,
					fmt.Sprintf("malformed %s document", resource),
					err,
				)
			}
			docs = append(docs, doc)
		}

		if !hasNext || len(raws) == 0 {
			break
		}
	}

	return docs, nil
}

// fetchPage requests one page and reports whether the API advertises another.
func (c *Client) fetchPage(ctx context.Context, path string, page int) ([]json.RawMessage, bool, error) {
	url := fmt.Sprintf("%s/%s/%s.json?page=%d&per_page=%d",
		c.config.BaseURL, c.config.AdministrationID, path, page, c.config.PerPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, domainerror.NewSyncError(
			domainerror.ErrCodeUpstreamFailure,
			fmt.Sprintf("request to %s failed", path),
			err,
		)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, domainerror.NewSyncError(
			domainerror.ErrCodeUpstreamFailure,
			fmt.Sprintf("failed to read %s response", path),
			err,
		)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, domainerror.NewSyncError(
			domainerror.ErrCodeUpstreamFailure,
			fmt.Sprintf("%s returned status %d", path, resp.StatusCode),
			nil,
		)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, false, domainerror.NewSyncError(
			domainerror.ErrCodeUpstreamFailure,
			fmt.Sprintf("failed to decode %s response", path),
			err,
		)
	}

	return raws, hasNextLink(resp.Header.Get("Link")), nil
}

// hasNextLink reports whether a Link header advertises a rel="next" page.
func hasNextLink(header string) bool {
	for _, part := range strings.Split(header, ",") {
		if strings.Contains(part, `rel="next"`) {
			return true
		}
	}
	return false
}

// Ensure Client satisfies the gateway interface.
var _ adapter.AccountingGateway = (*Client)(nil)
