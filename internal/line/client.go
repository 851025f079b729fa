// Package line wraps the LINE Messaging API behind the small
// reply/push surface the rest of the bot needs.
package line

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Sender delivers outbound text over the platform's two channels: the
// one-shot reply channel tied to an inbound event's reply token, and
// the push channel addressed directly by userId.
type Sender interface {
	Reply(ctx context.Context, replyToken, text string) error
	Push(ctx context.Context, userID, text string) error
}

// Client is the production Sender backed by the LINE Messaging API.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

// NewClient creates a Client authenticated with the channel access token.
func NewClient(channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging client: %w", err)
	}
	return &Client{api: api}, nil
}

// Reply sends text on the reply channel. The token is valid once; an
// expired or consumed token surfaces as a platform error.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// Push sends text directly to userID. Each call carries a fresh UUID
// retry key so the platform can deduplicate retried requests.
func (c *Client) Push(ctx context.Context, userID, text string) error {
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To: userID,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, uuid.New().String())
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	return nil
}
