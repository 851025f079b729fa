// Package delivery implements the one-shot fallback protocol between
// the reply and push channels.
package delivery

import (
	"context"
	"log/slog"

	"github.com/user/linkbot/internal/line"
)

// Channel identifies which delivery path carried a message.
type Channel string

const (
	ChannelReply Channel = "reply"
	ChannelPush  Channel = "push"
)

const fallbackPrefix = "(fallback) "

// Result reports how a delivery attempt ended. Channel is the path
// that succeeded, or the last one tried on failure; Fallback marks
// that the secondary channel was used. Err is nil when the message
// reached the user.
type Result struct {
	Channel  Channel
	Fallback bool
	Err      error
}

// Delivered reports whether the message reached the user on any channel.
func (r Result) Delivered() bool { return r.Err == nil }

// Coordinator sends outbound text with at most one fallback attempt
// per message. Final failures are logged and dropped; nothing here
// retries or queues.
type Coordinator struct {
	sender line.Sender
}

func New(sender line.Sender) *Coordinator {
	return &Coordinator{sender: sender}
}

// SendReply delivers a conversational reply. The reply channel is
// primary; when it fails and the sender knows the userId, one push of
// the prefixed text is attempted.
func (c *Coordinator) SendReply(ctx context.Context, replyToken, userID, text string) Result {
	err := c.sender.Reply(ctx, replyToken, text)
	if err == nil {
		return Result{Channel: ChannelReply}
	}
	slog.Warn("reply delivery failed", "user_id", userID, "error", err)

	if userID == "" {
		return Result{Channel: ChannelReply, Err: err}
	}
	if pushErr := c.sender.Push(ctx, userID, fallbackPrefix+text); pushErr != nil {
		slog.Error("push fallback failed", "user_id", userID, "error", pushErr)
		return Result{Channel: ChannelPush, Fallback: true, Err: pushErr}
	}
	return Result{Channel: ChannelPush, Fallback: true}
}

// SendConfirmation delivers a bind confirmation. The push channel is
// primary since the text carries the raw userId; the reply channel
// carries ack when the push lands, or the confirmation itself when it
// does not.
func (c *Coordinator) SendConfirmation(ctx context.Context, replyToken, userID, text, ack string) Result {
	pushed := false
	if userID != "" {
		if err := c.sender.Push(ctx, userID, text); err != nil {
			slog.Warn("confirmation push failed", "user_id", userID, "error", err)
		} else {
			pushed = true
		}
	}

	if pushed {
		if err := c.sender.Reply(ctx, replyToken, ack); err != nil {
			// The confirmation itself already landed; the lost ack is
			// logged, not escalated.
			slog.Warn("confirmation ack failed", "user_id", userID, "error", err)
		}
		return Result{Channel: ChannelPush}
	}

	if err := c.sender.Reply(ctx, replyToken, text); err != nil {
		slog.Error("confirmation reply fallback failed", "user_id", userID, "error", err)
		return Result{Channel: ChannelReply, Fallback: true, Err: err}
	}
	return Result{Channel: ChannelReply, Fallback: true}
}

// PushDirect sends operator-initiated text straight down the push
// channel. No fallback applies; the caller handles the error.
func (c *Coordinator) PushDirect(ctx context.Context, userID, text string) error {
	return c.sender.Push(ctx, userID, text)
}
