package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes messages to the service log. It is the default when no
// email provider is configured.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Publish(ctx context.Context, msg Message) error {
	n.log.WithField("subject", msg.Subject).Info("📨 " + msg.Body)
	return nil
}
