// Package airtable implements the record store on top of the Airtable REST API.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"moneynote/internal/core"
	"moneynote/internal/records"
)

const DefaultAPIURL = "https://api.airtable.com/v0"

type Config struct {
	APIURL string
	BaseID string
	Table  string
	Token  string
	// HTTPClient is the base transport; the bearer token is layered on top.
	HTTPClient *http.Client
}

// Client talks to one table. It keeps no state besides its HTTP client and
// issues exactly one request per operation.
type Client struct {
	tableURL string
	http     *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseID == "" || cfg.Table == "" {
		return nil, errors.New("airtable: base id and table are required")
	}
	if cfg.Token == "" {
		return nil, errors.New("airtable: token is required")
	}
	api := cfg.APIURL
	if api == "" {
		api = DefaultAPIURL
	}
	ctx := context.Background()
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
	return &Client{
		tableURL: strings.TrimRight(api, "/") + "/" + url.PathEscape(cfg.BaseID) + "/" + url.PathEscape(cfg.Table),
		http:     oauth2.NewClient(ctx, src),
	}, nil
}

// List fetches every record of the table.
func (c *Client) List(ctx context.Context) ([]core.Record, error) {
	var env records.Envelope
	if err := c.do(ctx, http.MethodGet, c.tableURL, nil, &env); err != nil {
		return nil, records.Fail("list", err)
	}
	return env.ToRecords(), nil
}

// Create posts the record fields and returns the created record.
func (c *Client) Create(ctx context.Context, r core.Record) (core.Record, error) {
	w := records.FromRecord(r)
	body, err := json.Marshal(struct {
		Fields records.Fields `json:"fields"`
	}{Fields: w.Fields})
	if err != nil {
		return core.Record{}, records.Fail("create", fmt.Errorf("encode: %w", err))
	}
	var created records.WireRecord
	if err := c.do(ctx, http.MethodPost, c.tableURL, body, &created); err != nil {
		return core.Record{}, records.Fail("create", err)
	}
	return created.ToRecord(), nil
}

// Delete removes the record; the response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return records.Fail("delete", errors.New("empty id"))
	}
	if err := c.do(ctx, http.MethodDelete, c.tableURL+"/"+url.PathEscape(id), nil, nil); err != nil {
		return records.Fail("delete", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return records.BadStatus(resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
