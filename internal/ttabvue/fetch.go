package ttabvue

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://ttabvue.uspto.gov/ttabvue/v"

// Client fetches proceeding pages. The underlying http.Client is reused
// across calls so batch scans share one connection pool.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchProceeding retrieves and parses one proceeding page.
func (c *Client) FetchProceeding(ctx context.Context, number, proceedingType string) (*Document, error) {
	q := url.Values{}
	q.Set("pno", number)
	q.Set("pty", proceedingType)
	return c.fetch(ctx, c.baseURL+"?"+q.Encode())
}

// FetchPartySearch retrieves the advanced-search results for a party name.
func (c *Client) FetchPartySearch(ctx context.Context, partyName string) (*Document, error) {
	q := url.Values{}
	q.Set("qt", "adv")
	q.Set("pn", partyName)
	q.Set("procstatus", "All")
	return c.fetch(ctx, c.baseURL+"?"+q.Encode())
}

// FetchListing retrieves an arbitrary TTABVue listing URL, typically a search
// result link pasted by the user.
func (c *Client) FetchListing(ctx context.Context, rawURL string) (*Document, error) {
	return c.fetch(ctx, rawURL)
}

func (c *Client) fetch(ctx context.Context, u string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch proceeding page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch proceeding page: status %d", resp.StatusCode)
	}
	doc, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse proceeding page: %w", err)
	}
	return doc, nil
}
