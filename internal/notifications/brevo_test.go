package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() ContactMessage {
	return ContactMessage{
		ID:          "65f1c0ffee",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Subject:     "Hello",
		Message:     "<b>hi</b>",
		SubmittedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSendContactNotification(t *testing.T) {
	var got brevoSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/smtp/email", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@brevo>"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("key", "me@example.com", "", "", true).WithBaseURL(srv.URL)
	id, err := c.SendContactNotification(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "<abc@brevo>", id)

	assert.Equal(t, "me@example.com", got.To[0].Email, "recipient defaults to the sender")
	assert.Equal(t, "me@example.com", got.Sender.Name)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "ada@example.com", got.ReplyTo.Email)
	assert.Equal(t, "New contact message: Hello", got.Subject)
	assert.Equal(t, "drop", got.Headers["X-Sib-Sandbox"])
	assert.Contains(t, got.HtmlContent, "Ada Lovelace")
	assert.Contains(t, got.HtmlContent, "&lt;b&gt;hi&lt;/b&gt;")
	assert.Contains(t, got.HtmlContent, "65f1c0ffee")
}

func TestSendContactNotificationUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewBrevoClient("bad", "me@example.com", "Me", "", false).WithBaseURL(srv.URL)
	_, err := c.SendContactNotification(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestNotConfigured(t *testing.T) {
	c := NewBrevoClient("", "me@example.com", "", "", false)
	assert.False(t, c.Configured())
	assert.False(t, c.HasAPIKey())
	assert.True(t, c.HasSender())

	_, err := c.SendContactNotification(context.Background(), testMessage())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.Verify(context.Background()), ErrNotConfigured)

	var nilClient *BrevoClient
	assert.False(t, nilClient.Configured())
}

func TestVerify(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/account", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("key", "me@example.com", "", "", false).WithBaseURL(srv.URL)
	assert.NoError(t, c.Verify(context.Background()))

	status = http.StatusUnauthorized
	assert.Error(t, c.Verify(context.Background()))
}
