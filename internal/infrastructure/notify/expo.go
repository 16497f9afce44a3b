// Package notify delivers push notifications through the Expo push service.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// ExpoNotifier implements ports.Notifier against the Expo push API.
type ExpoNotifier struct {
	endpoint    string
	accessToken string
	client      *http.Client
}

func NewExpoNotifier(endpoint, accessToken string, timeout time.Duration) *ExpoNotifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ExpoNotifier{
		endpoint:    endpoint,
		accessToken: accessToken,
		client:      &http.Client{Timeout: timeout},
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

type expoTicket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

type expoResponse struct {
	Data   []expoTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Send posts one message. Any transport failure, non-2xx status or error
// ticket is returned wrapped in domain.ErrNotify.
func (n *ExpoNotifier) Send(ctx context.Context, msg domain.Notification) error {
	if msg.To == "" {
		return fmt.Errorf("%w: empty push address", domain.ErrNotify)
	}

	body, err := json.Marshal([]expoMessage{{
		To:    msg.To,
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
		Sound: "default",
	}})
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrNotify, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotify, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if n.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.accessToken)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotify, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domain.ErrNotify, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: push service returned %d", domain.ErrNotify, resp.StatusCode)
	}

	var out expoResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrNotify, err)
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("%w: %s: %s", domain.ErrNotify, out.Errors[0].Code, out.Errors[0].Message)
	}
	for _, t := range out.Data {
		if t.Status == "error" {
			return fmt.Errorf("%w: %s (%s)", domain.ErrNotify, t.Message, t.Details.Error)
		}
	}
	return nil
}

// Noop discards every notification. It is used when no push endpoint is
// configured.
type Noop struct{}

func (Noop) Send(context.Context, domain.Notification) error { return nil }
