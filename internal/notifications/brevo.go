package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBrevoBaseURL = "https://api.brevo.com/v3"

var ErrNotConfigured = errors.New("brevo credentials are not configured")

type BrevoClient struct {
	apiKey      string
	senderEmail string
	senderName  string
	recipient   string
	sandbox     bool
	baseURL     string
	httpClient  *http.Client
}

// NewBrevoClient always returns a client; a client missing its API key or
// sender reports ErrNotConfigured from every call instead of being nil.
func NewBrevoClient(apiKey, senderEmail, senderName, recipient string, sandbox bool) *BrevoClient {
	apiKey = strings.TrimSpace(apiKey)
	senderEmail = strings.TrimSpace(senderEmail)
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	if strings.TrimSpace(recipient) == "" {
		recipient = senderEmail
	}
	return &BrevoClient{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		recipient:   strings.TrimSpace(recipient),
		sandbox:     sandbox,
		baseURL:     defaultBrevoBaseURL,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

// WithBaseURL points the client at another API root, e.g. an httptest server.
func (c *BrevoClient) WithBaseURL(baseURL string) *BrevoClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *BrevoClient) HasAPIKey() bool {
	return c != nil && c.apiKey != ""
}

func (c *BrevoClient) HasSender() bool {
	return c != nil && c.senderEmail != ""
}

func (c *BrevoClient) Configured() bool {
	return c.HasAPIKey() && c.HasSender()
}

// SendContactNotification mails the site owner about a new contact message.
// The visitor's address is set as reply-to.
func (c *BrevoClient) SendContactNotification(ctx context.Context, msg ContactMessage) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	htmlBody, err := buildContactNotificationHTML(msg)
	if err != nil {
		return "", err
	}

	payload := brevoSendRequest{
		Sender:      brevoContact{Name: c.senderName, Email: c.senderEmail},
		To:          []brevoContact{{Email: c.recipient}},
		ReplyTo:     &brevoContact{Email: msg.Email, Name: msg.FullName()},
		Subject:     fmt.Sprintf("New contact message: %s", msg.Subject),
		HtmlContent: htmlBody,
	}
	return c.send(ctx, payload)
}

// Verify checks the credentials against the account endpoint.
func (c *BrevoClient) Verify(ctx context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/account", nil)
	if err != nil {
		return fmt.Errorf("brevo create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo verify failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *BrevoClient) send(ctx context.Context, payload brevoSendRequest) (string, error) {
	if len(payload.To) == 0 || strings.TrimSpace(payload.To[0].Email) == "" {
		return "", errors.New("missing recipient email")
	}
	if strings.TrimSpace(payload.HtmlContent) == "" {
		return "", errors.New("missing html body")
	}
	if c.sandbox {
		payload.Headers = map[string]string{
			"X-Sib-Sandbox": "drop",
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/smtp/email", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out brevoSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", errors.New("brevo response missing messageId")
	}
	return out.MessageID, nil
}

func (c *BrevoClient) setHeaders(req *http.Request) {
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", c.apiKey)
}

type brevoSendRequest struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	ReplyTo     *brevoContact     `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HtmlContent string            `json:"htmlContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}
