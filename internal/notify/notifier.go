// Package notify tells the administrators about new submissions.
package notify

import "context"

type Message struct {
	Subject string
	Body    string
}

// Notifier defines the interface for publishing messages to a notification channel.
// Implementations are called off the request path; errors are only logged.
type Notifier interface {
	Publish(ctx context.Context, msg Message) error
}
