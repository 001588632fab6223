package aweber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/adamkorga/aweber-exporter/internal/logging"
)

// Client wraps the AWeber REST API. All requests go through the provided
// HTTP client, which is expected to inject the OAuth2 access token.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a new API client. baseURL is the versioned API root,
// e.g. "https://api.aweber.com/1.0".
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// FirstAccount returns the first account visible to the authorized user.
func (c *Client) FirstAccount(ctx context.Context) (*Account, error) {
	var pg page[Account]
	if err := c.getJSON(ctx, c.baseURL+"/accounts", &pg); err != nil {
		return nil, err
	}
	if len(pg.Entries) == 0 {
		return nil, errors.New("no account found for the authorized user")
	}
	return &pg.Entries[0], nil
}

// FirstList returns the first subscriber list of the account.
func (c *Client) FirstList(ctx context.Context, acct *Account) (*List, error) {
	link := acct.ListsCollectionLink
	if link == "" {
		link = fmt.Sprintf("%s/accounts/%d/lists", c.baseURL, acct.ID)
	}
	var pg page[List]
	if err := c.getJSON(ctx, link, &pg); err != nil {
		return nil, err
	}
	if len(pg.Entries) == 0 {
		return nil, errors.New("no subscriber list found in the account")
	}
	return &pg.Entries[0], nil
}

// ListBroadcasts returns all broadcasts of the list with the given status,
// following next_collection_link until the collection is exhausted. Entries
// are returned in page order. A 404 means the status has no broadcasts and
// yields an empty result rather than an error.
func (c *Client) ListBroadcasts(ctx context.Context, acct *Account, list *List, status string) ([]Broadcast, error) {
	q := url.Values{"status": {status}}
	next := c.broadcastsURL(acct, list) + "?" + q.Encode()

	var all []Broadcast
	for next != "" {
		var pg page[Broadcast]
		if err := c.getJSON(ctx, next, &pg); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				c.logger.Debug("no broadcasts for status", logging.Status(status))
				return all, nil
			}
			return nil, err
		}
		all = append(all, pg.Entries...)
		next = pg.NextCollectionLink
	}

	c.logger.Debug("fetched broadcast collection", logging.Status(status), logging.Count(len(all)))
	return all, nil
}

// GetBroadcast fetches the detail resource of a broadcast. The detail view
// is the only place the API exposes body_html.
func (c *Client) GetBroadcast(ctx context.Context, acct *Account, list *List, b *Broadcast) (*Broadcast, error) {
	link := b.SelfLink
	if link == "" {
		link = fmt.Sprintf("%s/%d", c.broadcastsURL(acct, list), b.BroadcastID)
	}
	var detail Broadcast
	if err := c.getJSON(ctx, link, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) broadcastsURL(acct *Account, list *List) string {
	return fmt.Sprintf("%s/accounts/%d/lists/%d/broadcasts", c.baseURL, acct.ID, list.ID)
}

// getJSON performs a GET request and decodes the JSON response into v.
// Any non-2xx response becomes an *APIError carrying status and body.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("api request", logging.URL(rawURL))
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &APIError{
			StatusCode: res.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			URL:        rawURL,
		}
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}
