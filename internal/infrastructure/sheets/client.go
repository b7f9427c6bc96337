// Package sheets talks to the spreadsheet-backed ledger, a Google Apps Script
// web app that answers GET actions and accepts posted job entries.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/sangkips/printledger/pkg/apperror"
)

const (
	actionGetDropdowns    = "getDropdowns"
	actionGetCustomerData = "getCustomerData"

	// Apps Script reads the raw body; text/plain matches what a browser sends
	// for fetch() with a string body.
	submitContentType = "text/plain;charset=utf-8"

	maxErrorBody = 512
)

// Client calls the ledger endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a ledger client. A zero timeout leaves requests bounded
// only by their context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetDropdowns fetches the autocomplete suggestion lists.
func (c *Client) GetDropdowns(ctx context.Context) (*entity.DropdownOptions, error) {
	var opts entity.DropdownOptions
	if err := c.get(ctx, url.Values{"action": {actionGetDropdowns}}, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// GetCustomerData fetches every recorded job for one customer.
func (c *Client) GetCustomerData(ctx context.Context, customerName string) (*entity.CustomerHistory, error) {
	var history entity.CustomerHistory
	q := url.Values{
		"action":       {actionGetCustomerData},
		"customerName": {customerName},
	}
	if err := c.get(ctx, q, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// SubmitEntry posts one job entry. A non-success status is returned as a
// normal response; only transport and decoding problems are errors.
func (c *Client) SubmitEntry(ctx context.Context, entry *entity.JobEntry) (*entity.SubmitResponse, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("error encoding entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.NewTransportError("submit entry", err)
	}
	req.Header.Set("Content-Type", submitContentType)

	var result entity.SubmitResponse
	if err := c.do(req, "submit entry", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, query url.Values, out interface{}) error {
	op := query.Get("action")

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return apperror.NewTransportError(op, err)
	}
	q := u.Query()
	for k, v := range query {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return apperror.NewTransportError(op, err)
	}
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.NewTransportError(op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return apperror.NewTransportError(op, fmt.Errorf("status %d: %s", res.StatusCode, bytes.TrimSpace(snippet)))
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return apperror.NewTransportError(op, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apperror.NewMalformedResponseError(op, err)
	}
	return nil
}
