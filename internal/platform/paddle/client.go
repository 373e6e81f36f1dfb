package paddle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/pkg/config"
)

// Client talks to the Paddle Billing API with a bearer API key. Checkout is
// opened client-side by Paddle.js, so the server surface is small: customer
// portal sessions and transaction lookups.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func New(cfg *config.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Paddle.APIURL, "/"),
		apiKey:     cfg.Paddle.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// CreatePortalSession opens a customer-portal session and returns the
// overview URL the user can manage their subscription at.
func (c *Client) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", fmt.Errorf("paddle customer id is empty")
	}

	var out portalSessionData
	path := "/customers/" + customerID + "/portal-sessions"
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &out); err != nil {
		return "", err
	}
	if out.URLs.General.Overview == "" {
		return "", fmt.Errorf("paddle portal session response missing overview url")
	}
	return out.URLs.General.Overview, nil
}

// GetTransaction fetches a transaction, used to enrich payment events whose
// webhook payload omitted totals.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+transactionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paddle request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paddle response read failed: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("paddle response decode failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if envelope.Error.Detail != "" {
			return fmt.Errorf("paddle %s: %s", path, envelope.Error.Detail)
		}
		return fmt.Errorf("paddle %s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("paddle response data decode failed: %w", err)
	}
	return nil
}
