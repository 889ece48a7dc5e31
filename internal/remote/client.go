// Package remote talks to the shared authoritative store over its REST
// surface. Each synced table is keyed by its primary key; writes are
// upsert / update-by-match / delete-by-match, and a uniqueness violation on
// write is a defined outcome ("row already present"), not an error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/froma1976/ailogistic/internal/model"
)

// Client is an HTTP JSON client against a PostgREST-style endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Ping reports whether the remote store is reachable. The connectivity
// watcher turns this into online/offline transitions.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	c.auth(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: unreachable: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("remote: returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) FetchReferences(ctx context.Context) ([]model.PartReference, error) {
	var refs []model.PartReference
	if err := c.fetch(ctx, model.TableReferences, 0, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) FetchInventoryLog(ctx context.Context, limit int) ([]model.InventoryLogEntry, error) {
	var entries []model.InventoryLogEntry
	if err := c.fetch(ctx, model.TableInventoryLog, limit, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) FetchProduction(ctx context.Context) ([]model.ProductionRecord, error) {
	var records []model.ProductionRecord
	if err := c.fetch(ctx, model.TableProduction, 0, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Upsert inserts the row, merging on primary-key duplicates so that
// re-sending an already-present row succeeds.
func (c *Client) Upsert(ctx context.Context, row model.Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("remote: marshal %s row: %w", row.TableName(), err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.tableURL(row.TableName(), nil), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates")
	return c.do(req)
}

// Update patches the remote row matched by the row's primary key. Matching
// nothing is not an error: the row may simply not exist remotely yet.
func (c *Client) Update(ctx context.Context, row model.Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("remote: marshal %s row: %w", row.TableName(), err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.tableURL(row.TableName(), row.PrimaryKey()), bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req)
}

// Delete removes the remote row matched by key.
func (c *Client) Delete(ctx context.Context, table string, key map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.tableURL(table, key), nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *Client) fetch(ctx context.Context, table string, limit int, out any) error {
	u := c.tableURL(table, nil)
	if limit > 0 {
		u += "&limit=" + fmt.Sprint(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	c.auth(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: fetch %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote: fetch %s: returned %d", table, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", table, err)
	}
	return nil
}

func (c *Client) tableURL(table string, match map[string]string) string {
	q := url.Values{"select": {"*"}}
	for col, val := range match {
		q.Set(col, "eq."+val)
	}
	return fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())
}

func (c *Client) do(req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	return decodeWriteError(resp)
}

func (c *Client) auth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
