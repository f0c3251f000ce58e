package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"atena/internal/domain/notification"
)

// sender is the subset of *messaging.Client used here
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Client implements notification.Messenger using Firebase Cloud Messaging
type Client struct {
	msgClient sender
	log       zerolog.Logger
}

// NewClient initializes a Firebase app and returns an FCM client.
func NewClient(ctx context.Context, credentialsFile string, log zerolog.Logger) (*Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}

	return &Client{msgClient: msgClient, log: log}, nil
}

// SendToTopic publishes a notification to every device subscribed to topic
func (c *Client) SendToTopic(ctx context.Context, topic string, msg notification.Message) error {
	id, err := c.msgClient.Send(ctx, buildMessage(topic, msg))
	if err != nil {
		if messaging.IsInvalidArgument(err) {
			return fmt.Errorf("invalid FCM message for topic %s: %w", topic, err)
		}
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	c.log.Debug().Str("topic", topic).Str("message_id", id).Msg("FCM message sent")
	return nil
}

func buildMessage(topic string, msg notification.Message) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
}
