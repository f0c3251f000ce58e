package notification

import (
	"context"
	"fmt"

	"atena/internal/domain/recurring"
	"atena/internal/domain/transaction"
)

// Service turns domain events into push notifications on a single topic
type Service struct {
	messenger Messenger
	topic     string
}

// NewService creates a notification service publishing to topic
func NewService(messenger Messenger, topic string) (*Service, error) {
	if topic == "" {
		return nil, ErrTopicRequired
	}
	return &Service{messenger: messenger, topic: topic}, nil
}

// RecurringGenerated announces a transaction materialized by a schedule
func (s *Service) RecurringGenerated(ctx context.Context, sched *recurring.Schedule, txn *transaction.Transaction) error {
	if s.messenger == nil {
		return nil
	}
	return s.messenger.SendToTopic(ctx, s.topic, RecurringMessage(sched, txn))
}

// RecurringMessage builds the payload for a generated transaction
func RecurringMessage(sched *recurring.Schedule, txn *transaction.Transaction) Message {
	title := "Recurring transaction created"
	if txn.Description != "" {
		title = txn.Description
	}

	return Message{
		Title: title,
		Body:  fmt.Sprintf("%s due on %s", txn.Amount.StringFixed(2), txn.PaymentDate),
		Data: map[string]string{
			DataRoute:         RouteRecurring,
			DataScheduleID:    sched.ID,
			DataTransactionID: txn.ID,
			DataPaymentDate:   txn.PaymentDate.String(),
			DataAmount:        txn.Amount.StringFixed(2),
		},
	}
}
