package notification

import "errors"

// Data keys attached to every recurring notification
const (
	DataRoute         = "route"
	DataScheduleID    = "scheduleId"
	DataTransactionID = "transactionId"
	DataPaymentDate   = "paymentDate"
	DataAmount        = "amount"

	RouteRecurring = "recurring-transactions"
)

var ErrTopicRequired = errors.New("notification topic is required")

// Message is a push notification payload
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}
