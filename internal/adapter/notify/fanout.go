package adapternotify

import (
	"context"
	"errors"

	"github.com/Vikasg7/alerty/internal/port/notify"
)

// Fanout delivers each notification to every configured channel. A failing
// channel does not stop the others; errors are joined for the caller.
type Fanout struct {
	notifiers []notify.Notifier
}

func NewFanout(notifiers ...notify.Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

func (f *Fanout) Notify(ctx context.Context, n notify.Notification) error {
	var errs []error
	for _, notifier := range f.notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
