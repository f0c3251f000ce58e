package firebase

import (
	"context"
	"errors"
	"io"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"

	"atena/internal/domain/notification"
)

type fakeSender struct {
	got *messaging.Message
	err error
}

func (f *fakeSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	f.got = message
	if f.err != nil {
		return "", f.err
	}
	return "projects/atena/messages/1", nil
}

func TestClient_SendToTopic(t *testing.T) {
	fs := &fakeSender{}
	c := &Client{msgClient: fs, log: zerolog.New(io.Discard)}

	msg := notification.Message{Title: "Rent", Body: "1500.00 due on 2024-03-01", Data: map[string]string{"route": "recurring-transactions"}}
	if err := c.SendToTopic(context.Background(), "atena", msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fs.got.Topic != "atena" {
		t.Errorf("topic = %q", fs.got.Topic)
	}
	if fs.got.Notification.Title != "Rent" || fs.got.Notification.Body != msg.Body {
		t.Errorf("notification = %+v", fs.got.Notification)
	}
	if fs.got.Data["route"] != "recurring-transactions" {
		t.Errorf("data = %v", fs.got.Data)
	}
	if fs.got.Token != "" {
		t.Error("topic messages must not carry a token")
	}
}

func TestClient_SendToTopic_Error(t *testing.T) {
	c := &Client{msgClient: &fakeSender{err: errors.New("unavailable")}, log: zerolog.New(io.Discard)}
	if err := c.SendToTopic(context.Background(), "atena", notification.Message{}); err == nil {
		t.Fatal("expected error")
	}
}
