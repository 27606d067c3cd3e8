// Package catalog implements the HTTP client for the remote CTF catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ctfwatch/ctfwatch/internal/common"
	"github.com/ctfwatch/ctfwatch/internal/model"
)

// Client fetches event summaries and per-event details from the catalog
// API. Every request carries a fixed identification header and a single
// attempt is made per call; retries are left to the next watcher run.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	origin     string
}

// Catalog wire types.
type eventSummary struct {
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	OrgName  string      `json:"org_name"`
	Slug     string      `json:"slug"`
	StartsAt string      `json:"starts_at"`
	EndsAt   string      `json:"ends_at"`
}

type eventDetail struct {
	Name             string `json:"name"`
	OrgName          string `json:"org_name"`
	StartsAt         string `json:"starts_at"`
	EndsAt           string `json:"ends_at"`
	Description      string `json:"description"`
	LongDescription  string `json:"long_description"`
	ShortDescription string `json:"short_description"`
	Instructions     string `json:"instructions"`
	JoinInstructions string `json:"join_instructions"`
	Banner           string `json:"banner"`
	Logo             string `json:"logo"`
	Avatar           string `json:"avatar"`
	Image            string `json:"image"`
	BannerImage      string `json:"banner_image"`
	HasCode          bool   `json:"hasCode"`
}

// NewClient creates a catalog client for the given base URL. The site
// origin used for event links and banner resolution is derived from the
// base URL's scheme and host.
func NewClient(baseURL, userAgent string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid catalog base URL %q", common.ErrInvalidConfig, baseURL)
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		origin:    u.Scheme + "://" + u.Host,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// ListEvents fetches the full catalog listing. A transport error or
// non-2xx status is a hard failure for the caller's discovery pass.
func (c *Client) ListEvents(ctx context.Context) ([]model.EventSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCatalogUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d - %s", common.ErrCatalogUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var list []eventSummary
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	summaries := make([]model.EventSummary, 0, len(list))
	for _, e := range list {
		summaries = append(summaries, model.EventSummary{
			ID:       e.ID.String(),
			Name:     e.Name,
			OrgName:  e.OrgName,
			Slug:     e.Slug,
			StartsAt: e.StartsAt,
			EndsAt:   e.EndsAt,
		})
	}
	return summaries, nil
}

// EventDetail fetches the detail record for one event. Absence is not
// escalated: any non-2xx status returns (nil, nil) so the caller skips
// the event and retries it on a later run. Only transport errors are
// reported, and the caller treats those as a per-item skip too.
func (c *Client) EventDetail(ctx context.Context, slug string) (*model.EventDetail, error) {
	detailURL := c.baseURL + "/details/" + url.PathEscape(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create detail request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch detail for %s: %w", slug, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var d eventDetail
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode detail for %s: %w", slug, err)
	}

	return &model.EventDetail{
		Name:             d.Name,
		OrgName:          d.OrgName,
		StartsAt:         d.StartsAt,
		EndsAt:           d.EndsAt,
		Description:      d.Description,
		LongDescription:  d.LongDescription,
		ShortDescription: d.ShortDescription,
		Instructions:     d.Instructions,
		JoinInstructions: d.JoinInstructions,
		Banner:           d.Banner,
		Logo:             d.Logo,
		Avatar:           d.Avatar,
		Image:            d.Image,
		BannerImage:      d.BannerImage,
		HasCode:          d.HasCode,
	}, nil
}

// EventURL builds the public page link for an event.
func (c *Client) EventURL(slug string) string {
	return c.origin + "/event/" + url.PathEscape(slug)
}

// Origin returns the catalog site origin (scheme and host).
func (c *Client) Origin() string {
	return c.origin
}
