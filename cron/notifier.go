package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clinicbot/config"
	"clinicbot/models"
)

// Notifier pushes an unsolicited message to a user through the transport.
type Notifier interface {
	Push(ctx context.Context, userID string, req models.RenderRequest) error
}

// outboundMessage is the envelope the transport webhook expects.
type outboundMessage struct {
	UserID string               `json:"user_id"`
	Render models.RenderRequest `json:"render"`
}

// TransportNotifier implements Notifier by POSTing to the configured
// transport webhook. Reminders and reports go out this way; everything else
// is request/response on the chat endpoint.
type TransportNotifier struct {
	client *http.Client
}

func NewTransportNotifier() *TransportNotifier {
	return &TransportNotifier{client: &http.Client{Timeout: 10 * time.Second}}
}

func (n *TransportNotifier) Push(ctx context.Context, userID string, req models.RenderRequest) error {
	url := config.AppConfig.TransportWebhookURL
	if url == "" {
		return fmt.Errorf("transport webhook URL not configured")
	}

	body, err := json.Marshal(outboundMessage{UserID: userID, Render: req})
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to deliver outbound message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("transport webhook returned status %d", resp.StatusCode)
	}
	return nil
}
