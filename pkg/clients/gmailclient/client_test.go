package gmailclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type sentMessages struct {
	mu  sync.Mutex
	raw []string
}

func newTestServer(t *testing.T, sent *sentMessages) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg struct {
			Raw string `json:"raw"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))

		decoded, err := base64.URLEncoding.DecodeString(msg.Raw)
		require.NoError(t, err)

		sent.mu.Lock()
		sent.raw = append(sent.raw, string(decoded))
		sent.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "msg-1"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSendEmail(t *testing.T) {
	sent := &sentMessages{}
	server := newTestServer(t, sent)

	ctx := context.Background()
	client, err := NewClient(ctx, server.Client(), "rota@example.com", option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)
	client.interval = 0

	err = client.SendEmail(ctx, "lead@example.com", "Shortages for January 2025", "2025-01-02 Afternoon: missing 1")
	require.NoError(t, err)

	require.Len(t, sent.raw, 1)
	msg := sent.raw[0]
	assert.Contains(t, msg, "From: rota@example.com\r\n")
	assert.Contains(t, msg, "To: lead@example.com\r\n")
	assert.Contains(t, msg, "Subject: Shortages for January 2025\r\n")
	assert.Contains(t, msg, "\r\n\r\n2025-01-02 Afternoon: missing 1")
}

func TestBuildMessage_NoSender(t *testing.T) {
	client := &Client{}
	msg := client.buildMessage("lead@example.com", "Hi", "Body")

	assert.NotContains(t, msg, "From:")
	assert.Equal(t, "To: lead@example.com\r\nSubject: Hi\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\nBody", msg)
}

func TestSendEmail_Throttled(t *testing.T) {
	sent := &sentMessages{}
	server := newTestServer(t, sent)

	ctx := context.Background()
	client, err := NewClient(ctx, server.Client(), "", option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)
	client.interval = 50 * time.Millisecond

	start := time.Now()
	require.NoError(t, client.SendEmail(ctx, "a@example.com", "s", "b"))
	require.NoError(t, client.SendEmail(ctx, "b@example.com", "s", "b"))

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Len(t, sent.raw, 2)
}

func TestSendEmail_CancelledWhileWaiting(t *testing.T) {
	sent := &sentMessages{}
	server := newTestServer(t, sent)

	client, err := NewClient(context.Background(), server.Client(), "", option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)
	client.interval = time.Hour
	client.lastSendTime = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = client.SendEmail(ctx, "a@example.com", "s", "b")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sent.raw)
}
