package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	DeliveryIDHeader = "X-Delivery-Id"
	userAgent        = "adms-gateway/1"
	maxErrorBody     = 4 << 10
)

type Response struct {
	StatusCode int
	Data       []byte
}

// DeliveryError is a failed POST to one endpoint: either a transport error
// or a non-2xx status.
type DeliveryError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("POST %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("POST %s failed with status code %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Transport posts JSON payloads to subscriber endpoints.
type Transport struct {
	HTTPClient *http.Client
}

func NewTransport(client *http.Client) *Transport {
	if client == nil {
		client = &http.Client{}
	}
	return &Transport{HTTPClient: client}
}

// Post sends data as JSON to url. Only 2xx responses succeed; anything else
// is returned as a *DeliveryError.
func (t *Transport) Post(ctx context.Context, url string, data any, deliveryID string) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &DeliveryError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if deliveryID != "" {
		req.Header.Set(DeliveryIDHeader, deliveryID)
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, &DeliveryError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &DeliveryError{URL: url, StatusCode: resp.StatusCode, Body: string(b)}
	}

	resdata, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, &DeliveryError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	return &Response{StatusCode: resp.StatusCode, Data: resdata}, nil
}
