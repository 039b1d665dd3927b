package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

// Notifier raises best-effort desktop notifications. Delivery failures are
// logged at debug level and otherwise ignored.
type Notifier struct {
	logger  *logrus.Logger
	enabled bool

	send func(title, message string) error
}

// NewNotifier creates a notifier. When enabled is false, Send is a no-op.
func NewNotifier(enabled bool, logger *logrus.Logger) *Notifier {
	return &Notifier{
		logger:  logger,
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Send fires a notification and never fails.
func (n *Notifier) Send(title, message string) {
	if n == nil || !n.enabled {
		return
	}
	if err := n.send(title, message); err != nil {
		n.logger.Debugf("Notification delivery failed: %v", err)
	}
}
