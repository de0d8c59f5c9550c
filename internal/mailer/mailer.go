package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/eternalinsky-max/proponujeprace/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Message is a single outbound email.
type Message struct {
	FromName string `json:"from_name"`
	ReplyTo  string `json:"reply_to,omitempty"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
}

// Mailer delivers email through the mail provider's HTTP API.
type Mailer struct {
	client  HTTPDoer
	baseURL string
	apiKey  string
	from    string
	logger  *slog.Logger
}

// New creates a mailer targeting the given provider endpoint.
func New(client HTTPDoer, baseURL, apiKey, from string, logger *slog.Logger) *Mailer {
	return &Mailer{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		logger:  logger,
	}
}

type sendRequest struct {
	From     string `json:"from"`
	FromName string `json:"from_name,omitempty"`
	ReplyTo  string `json:"reply_to,omitempty"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
}

// Send delivers a message through the provider. The returned error carries
// the provider's status mapping via httpclient.ParseResponseError.
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	payload := sendRequest{
		From:     m.from,
		FromName: msg.FromName,
		ReplyTo:  msg.ReplyTo,
		To:       msg.To,
		Subject:  msg.Subject,
		Text:     msg.Text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return httpclient.ParseResponseError(resp, "mail provider")
	}

	m.logger.DebugContext(ctx, "mail delivered",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)

	return nil
}
