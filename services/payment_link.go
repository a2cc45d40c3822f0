// services/payment_link.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PaymentLink is the {url, id} contract of the hosted payment-link function.
type PaymentLink struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// PaymentLinkCreator abstracts the Stripe-backed payment-link function so
// the occurrence service can be tested without the external capability.
type PaymentLinkCreator interface {
	CreatePaymentLink(ctx context.Context, amount int64, description string) (*PaymentLink, error)
}

// PaymentLinkClient calls the hosted create-payment-link function. Amounts
// are minor currency units.
type PaymentLinkClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewPaymentLinkClient(endpoint, token string, timeout time.Duration) *PaymentLinkClient {
	if timeout <= 0 {
		timeout = DefaultFunctionTimeout
	}
	return &PaymentLinkClient{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PaymentLinkClient) CreatePaymentLink(ctx context.Context, amount int64, description string) (*PaymentLink, error) {
	payload := map[string]interface{}{
		"amount":      amount,
		"description": description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewInternalError("Failed to encode payment link payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewInternalError("Failed to build payment link request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewTransportError("Payment link call failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError("Failed to read payment link response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewInternalError(fmt.Sprintf("Payment link service returned %d", resp.StatusCode), nil)
	}

	var link PaymentLink
	if err := json.Unmarshal(respBody, &link); err != nil {
		return nil, NewInternalError("Failed to decode payment link response", err)
	}
	if link.URL == "" {
		return nil, NewInternalError("Payment link service returned no url", nil)
	}
	return &link, nil
}
