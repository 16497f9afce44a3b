package ports

import (
	"context"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// Notifier delivers a push notification. Delivery is best effort.
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}

// NotificationQueue hands a notification to background delivery. Enqueue
// never blocks; it fails when the queue is full.
type NotificationQueue interface {
	Enqueue(n domain.Notification) error
}
