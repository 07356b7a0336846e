package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppClient sends booking confirmations through the provider's OTP
// endpoint. One shot per booking: no retry, no queueing, no delivery
// tracking. The caller gets the raw provider response for display only.
type WhatsAppClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWhatsAppClient(baseURL string, timeout time.Duration) *WhatsAppClient {
	return &WhatsAppClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send posts the message to the provider. phone10 must already be the
// normalized 10-digit local form.
func (c *WhatsAppClient) Send(ctx context.Context, phone10, message string) (json.RawMessage, error) {
	body, err := json.Marshal(sendMessageRequest{Phone: phone10, Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mobile-send-otp", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, payload)
	}

	if !json.Valid(payload) {
		// some provider errors come back as plain text
		payload, _ = json.Marshal(string(payload))
	}
	return payload, nil
}
