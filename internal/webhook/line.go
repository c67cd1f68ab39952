// ABOUTME: LINE Messaging API boundary: signature verification and the reply call
// ABOUTME: At most one reply per event, text only

package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const replyEndpoint = "https://api.line.me/v2/bot/message/reply"

// ReplySender sends the single text reply for an event.
type ReplySender interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// LineClient implements ReplySender against the LINE Messaging API.
type LineClient struct {
	accessToken string
	endpoint    string
	client      *http.Client
}

// NewLineClient creates a reply client with the channel access token.
func NewLineClient(accessToken string) *LineClient {
	return &LineClient{
		accessToken: accessToken,
		endpoint:    replyEndpoint,
		client:      &http.Client{},
	}
}

type replyRequest struct {
	ReplyToken string         `json:"replyToken"`
	Messages   []replyMessage `json:"messages"`
}

type replyMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reply posts one text message against the event's reply token.
func (c *LineClient) Reply(ctx context.Context, replyToken, text string) error {
	body, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   []replyMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("encoding reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("reply rejected: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// ValidateSignature checks the X-Line-Signature header: base64 of the
// HMAC-SHA256 of the raw request body keyed with the channel secret.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
