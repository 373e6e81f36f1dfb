package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DishIs/temp-mail-sub000/pkg/config"
)

// Client is a thin wrapper over the PayPal REST API. Every call fetches a
// fresh client-credentials token; tokens are not cached across requests.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          *zap.SugaredLogger
}

func New(cfg *config.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.PayPal.APIURL, "/"),
		clientID:     cfg.PayPal.ClientID,
		clientSecret: cfg.PayPal.ClientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		log:          log,
	}
}

// GetAccessToken obtains an OAuth2 access token via the client-credentials
// grant with Basic auth.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal token request: status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("paypal token response decode failed: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("paypal token response missing access_token")
	}
	return tr.AccessToken, nil
}

// CreateSubscription creates a subscription resource and returns it with the
// hosted approval link.
func (c *Client) CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*Subscription, error) {
	token, err := c.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := c.post(ctx, "/v1/billing/subscriptions", token, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// VerifyWebhookSignature performs the remote verification call. A delivery is
// authentic only when PayPal answers verification_status == "SUCCESS".
func (c *Client) VerifyWebhookSignature(ctx context.Context, req *VerifyWebhookSignatureRequest) (bool, error) {
	token, err := c.GetAccessToken(ctx)
	if err != nil {
		return false, err
	}

	var out verifyWebhookSignatureResponse
	if err := c.post(ctx, "/v1/notifications/verify-webhook-signature", token, req, &out); err != nil {
		return false, err
	}
	return out.VerificationStatus == "SUCCESS", nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paypal response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("paypal %s: %s: %s", path, apiErr.Name, apiErr.Message)
		}
		return fmt.Errorf("paypal %s: status %d: %s", path, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("paypal response decode failed: %w", err)
	}
	return nil
}
