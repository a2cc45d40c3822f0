// services/functions_client.go
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

// DefaultFunctionTimeout bounds a single remote function invocation. A
// timed-out call is treated as transport failure with an unknown outcome.
const DefaultFunctionTimeout = 30 * time.Second

// FunctionsClient invokes hosted managed functions over HTTP. Transport
// failures (timeouts, connection resets, gateway errors) are reported as
// ErrTransport so the dual-path creator can fall back to the direct store;
// errors declared by the function itself keep their declared kind and are
// never retried.
type FunctionsClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewFunctionsClient(baseURL, token string, timeout time.Duration) *FunctionsClient {
	if timeout <= 0 {
		timeout = DefaultFunctionTimeout
	}
	return &FunctionsClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateSeries runs the series creation flow on the remote function layer.
func (c *FunctionsClient) CreateSeries(ctx context.Context, req CreateSeriesRequest) (*CreateSeriesResult, error) {
	payload := struct {
		CreateSeriesRequest
		AccountID string `json:"accountId"`
	}{CreateSeriesRequest: req, AccountID: req.AccountID.String()}

	var result CreateSeriesResult
	if err := c.invoke(ctx, "create-booking-series", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// functionError is the declared error body of a failed function call.
type functionError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (c *FunctionsClient) invoke(ctx context.Context, name string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return NewInternalError("Failed to encode function payload", err)
	}

	url := c.baseURL + "/" + name
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return NewInternalError("Failed to build function request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Timeouts, DNS failures and connection resets all land here.
		return NewTransportError("Function call failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewTransportError("Failed to read function response", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return NewInternalError("Failed to decode function response", err)
		}
		return nil
	}

	// Gateway-level failures mean the function layer itself is unreachable.
	if resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusGatewayTimeout {
		return NewTransportError(fmt.Sprintf("Function gateway returned %d", resp.StatusCode), nil)
	}

	var fnErr functionError
	if err := json.Unmarshal(respBody, &fnErr); err != nil || fnErr.Error == "" {
		return NewInternalError(fmt.Sprintf("Function %s returned %d", name, resp.StatusCode), nil)
	}
	return &OpError{Kind: kindFromString(fnErr.Kind), Message: fnErr.Error}
}

func kindFromString(s string) ErrorKind {
	switch ErrorKind(s) {
	case ErrValidation, ErrNotFound, ErrTransport, ErrPersistence:
		return ErrorKind(s)
	default:
		return ErrInternal
	}
}
