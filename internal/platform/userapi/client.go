package userapi

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
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// internalKeyHeader authenticates this service against the backend
// user-service. The backend owns all plan state; we only push events at it.
const internalKeyHeader = "X-Internal-Api-Key"

// UserStatus is the backend's view of a user, queried before Paddle checkout
// (trial consumption) and portal sessions (customer id).
type UserStatus struct {
	UserID           string `json:"user_id"`
	Plan             string `json:"plan"`
	TrialConsumed    bool   `json:"trial_consumed"`
	PaddleCustomerID string `json:"paddle_customer_id"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func New(cfg *config.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.ServiceAPI.URL, "/"),
		apiKey:     cfg.ServiceAPI.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// PushSubscriptionEvent forwards a normalized event to the provider-specific
// backend route.
func (c *Client) PushSubscriptionEvent(ctx context.Context, ev *types.SubscriptionEvent) error {
	var path string
	switch ev.Provider {
	case types.PaymentProviderPayPal:
		path = "/paypal/subscription-event"
	case types.PaymentProviderPaddle:
		path = "/paddle/subscription-event"
	default:
		return fmt.Errorf("unsupported provider: %s", ev.Provider)
	}
	return c.post(ctx, path, ev, nil)
}

func (c *Client) GetUserStatus(ctx context.Context, userID string) (*UserStatus, error) {
	var out UserStatus
	if err := c.post(ctx, "/user/status", map[string]string{"user_id": userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(internalKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("user-service request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("user-service %s: status %d: %s", path, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("user-service response decode failed: %w", err)
	}
	return nil
}
