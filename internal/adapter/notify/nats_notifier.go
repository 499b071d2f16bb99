// Package adapternotify delivers alert notifications to users. The NATS
// notifier feeds connected clients, the email notifier reaches users who are
// away, and Fanout combines any number of channels.
package adapternotify

import (
	"context"
	"time"

	natsmsg "github.com/Vikasg7/alerty/internal/adapter/messaging/nats"
	"github.com/Vikasg7/alerty/internal/port/notify"
)

const SubjectNotifications = "tracker.notifications"

type NATSNotifier struct {
	publisher *natsmsg.Publisher
}

func NewNATSNotifier(publisher *natsmsg.Publisher) *NATSNotifier {
	return &NATSNotifier{publisher: publisher}
}

type notificationEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	TargetURL string    `json:"targetUrl"`
	Timestamp time.Time `json:"timestamp"`
}

// Notify publishes the notification keyed by listing, so a newer alert for
// the same product replaces the one a client may still be showing.
func (n *NATSNotifier) Notify(ctx context.Context, notification notify.Notification) error {
	return n.publisher.Publish(ctx, SubjectNotifications, notificationEvent{
		ID:        notification.ID,
		Title:     notification.Title,
		Message:   notification.Message,
		ImageURL:  notification.ImageURL,
		TargetURL: notification.TargetURL,
		Timestamp: time.Now().UTC(),
	})
}
