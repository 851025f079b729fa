package delivery

import (
	"context"
	"errors"
	"testing"
)

type sentMessage struct {
	Channel string
	Target  string
	Text    string
}

// fakeSender records outbound calls and fails on demand.
type fakeSender struct {
	replyErr error
	pushErr  error
	sent     []sentMessage
}

func (f *fakeSender) Reply(_ context.Context, replyToken, text string) error {
	if f.replyErr != nil {
		return f.replyErr
	}
	f.sent = append(f.sent, sentMessage{Channel: "reply", Target: replyToken, Text: text})
	return nil
}

func (f *fakeSender) Push(_ context.Context, userID, text string) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.sent = append(f.sent, sentMessage{Channel: "push", Target: userID, Text: text})
	return nil
}

func TestSendReplyHappyPath(t *testing.T) {
	fake := &fakeSender{}
	res := New(fake).SendReply(context.Background(), "tok", "U1", "hi")

	if !res.Delivered() || res.Channel != ChannelReply || res.Fallback {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fake.sent) != 1 || fake.sent[0].Channel != "reply" || fake.sent[0].Text != "hi" {
		t.Errorf("unexpected sends: %+v", fake.sent)
	}
}

func TestSendReplyFallsBackToPush(t *testing.T) {
	fake := &fakeSender{replyErr: errors.New("token expired")}
	res := New(fake).SendReply(context.Background(), "tok", "U1", "hi")

	if !res.Delivered() || res.Channel != ChannelPush || !res.Fallback {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fake.sent) != 1 || fake.sent[0].Channel != "push" {
		t.Fatalf("unexpected sends: %+v", fake.sent)
	}
	if fake.sent[0].Text != "(fallback) hi" {
		t.Errorf("fallback text not prefixed: %q", fake.sent[0].Text)
	}
	if fake.sent[0].Target != "U1" {
		t.Errorf("fallback push addressed to %q", fake.sent[0].Target)
	}
}

func TestSendReplyNoFallbackWithoutUserID(t *testing.T) {
	fake := &fakeSender{replyErr: errors.New("down")}
	res := New(fake).SendReply(context.Background(), "tok", "", "hi")

	if res.Delivered() {
		t.Error("expected failure")
	}
	if len(fake.sent) != 0 {
		t.Errorf("no push should be attempted without a userId: %+v", fake.sent)
	}
}

func TestSendReplyBothChannelsFail(t *testing.T) {
	fake := &fakeSender{replyErr: errors.New("down"), pushErr: errors.New("also down")}
	res := New(fake).SendReply(context.Background(), "tok", "U1", "hi")

	if res.Delivered() {
		t.Error("expected failure")
	}
	if res.Channel != ChannelPush || !res.Fallback {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSendConfirmationPrefersPush(t *testing.T) {
	fake := &fakeSender{}
	res := New(fake).SendConfirmation(context.Background(), "tok", "U1", "confirm", "ack")

	if !res.Delivered() || res.Channel != ChannelPush || res.Fallback {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fake.sent) != 2 {
		t.Fatalf("expected push then ack reply, got %+v", fake.sent)
	}
	if fake.sent[0].Channel != "push" || fake.sent[0].Text != "confirm" {
		t.Errorf("first send should be the pushed confirmation: %+v", fake.sent[0])
	}
	if fake.sent[1].Channel != "reply" || fake.sent[1].Text != "ack" {
		t.Errorf("second send should be the reply ack: %+v", fake.sent[1])
	}
}

func TestSendConfirmationFallsBackToReply(t *testing.T) {
	fake := &fakeSender{pushErr: errors.New("invalid recipient")}
	res := New(fake).SendConfirmation(context.Background(), "tok", "U1", "confirm", "ack")

	if !res.Delivered() || res.Channel != ChannelReply || !res.Fallback {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fake.sent) != 1 || fake.sent[0].Channel != "reply" || fake.sent[0].Text != "confirm" {
		t.Errorf("confirmation should arrive on the reply channel: %+v", fake.sent)
	}
}

func TestSendConfirmationWithoutUserIDUsesReply(t *testing.T) {
	fake := &fakeSender{}
	res := New(fake).SendConfirmation(context.Background(), "tok", "", "confirm", "ack")

	if !res.Delivered() || res.Channel != ChannelReply {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fake.sent) != 1 || fake.sent[0].Text != "confirm" {
		t.Errorf("unexpected sends: %+v", fake.sent)
	}
}

func TestSendConfirmationBothChannelsFail(t *testing.T) {
	fake := &fakeSender{replyErr: errors.New("down"), pushErr: errors.New("also down")}
	res := New(fake).SendConfirmation(context.Background(), "tok", "U1", "confirm", "ack")

	if res.Delivered() {
		t.Error("expected failure")
	}
	if res.Channel != ChannelReply || !res.Fallback {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSendConfirmationAckFailureStillDelivered(t *testing.T) {
	fake := &fakeSender{replyErr: errors.New("token consumed")}
	res := New(fake).SendConfirmation(context.Background(), "tok", "U1", "confirm", "ack")

	// The pushed confirmation landed; a lost ack does not fail delivery.
	if !res.Delivered() || res.Channel != ChannelPush {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(fake.sent) != 1 || fake.sent[0].Channel != "push" {
		t.Errorf("unexpected sends: %+v", fake.sent)
	}
}
