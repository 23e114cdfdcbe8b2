package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin wrapper over the payment provider's checkout API. Provider
// internals stay behind this seam: the rest of the backend only ever creates
// a checkout session and later receives a capture webhook.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

type CheckoutSession struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateCheckoutSession opens a hosted checkout for the given amount. The
// reference round-trips through the provider and comes back on the capture
// webhook, which is how a capture is resolved to a booking.
func (c Client) CreateCheckoutSession(ctx context.Context, reference, amount, currency string) (*CheckoutSession, error) {
	req := map[string]any{
		"reference": reference,
		"amount":    amount,
		"currency":  currency,
	}
	var resp CheckoutSession
	if _, err := c.doJSON(ctx, http.MethodPost, "/v1/checkout/sessions", req, &resp); err != nil {
		return nil, err
	}
	if resp.SessionID == "" || resp.CheckoutURL == "" {
		return nil, fmt.Errorf("gateway returned incomplete checkout session")
	}
	return &resp, nil
}

func (c Client) doJSON(ctx context.Context, method, path string, reqBody any, respBody any) (int, error) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if c.BaseURL == "" || c.APIKey == "" {
		return 0, fmt.Errorf("missing gateway base url or api key")
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	// Surface the provider error body for non-2xx so callers can see
	// declined/misconfigured details.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(b) > 0 {
			return resp.StatusCode, fmt.Errorf("gateway error: status=%d body=%s", resp.StatusCode, string(b))
		}
		return resp.StatusCode, fmt.Errorf("gateway error: status=%d", resp.StatusCode)
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return resp.StatusCode, fmt.Errorf("decode gateway response failed: %w body=%s", err, string(b))
		}
	}

	return resp.StatusCode, nil
}
