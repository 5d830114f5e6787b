package gmailclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// EmailInterval is the minimum gap between two sends, to respect Gmail API rate limits
const EmailInterval = 3 * time.Second

// Client wraps the Gmail API client
type Client struct {
	service *gmail.Service
	sender  string

	interval     time.Duration
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a Gmail client on top of an authorized HTTP client.
// sender becomes the From header when set; otherwise Gmail uses the authorized account.
func NewClient(ctx context.Context, httpClient *http.Client, sender string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{
		service:  service,
		sender:   sender,
		interval: EmailInterval,
	}, nil
}

// SendEmail sends a plain text email with the specified subject and body.
// Sends are throttled to one per EmailInterval.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	// Wait out the remainder of the interval since the last send
	if !c.lastSendTime.IsZero() {
		if wait := c.interval - time.Since(c.lastSendTime); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("failed to send email: %w", ctx.Err())
			case <-timer.C:
			}
		}
	}

	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(c.buildMessage(to, subject, body))),
	}

	_, err := c.service.Users.Messages.Send("me", gmailMessage).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.lastSendTime = time.Now()

	return nil
}

// buildMessage renders the RFC 2822 message
func (c *Client) buildMessage(to, subject, body string) string {
	var sb strings.Builder
	if c.sender != "" {
		fmt.Fprintf(&sb, "From: %s\r\n", c.sender)
	}
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(body)
	return sb.String()
}
