// Package notify fans export events out to chat channels. Notifications go to
// every registered sender (Telegram, Discord) and are filtered by event type
// so operators receive only the alerts they care about.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// EventExportCompleted is emitted after an export artifact has been delivered.
const EventExportCompleted = "export_completed"

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier dispatches notifications to one or more Senders. Only events in
// the allowed set are forwarded; an empty set allows everything.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that will deliver to the given senders.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			allowed[e] = true
		}
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Enabled reports whether any sender is registered.
func (n *Notifier) Enabled() bool {
	return len(n.senders) > 0
}

// Notify sends a notification to all senders if the event type is allowed.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) error {
	if len(n.events) > 0 && !n.events[event] {
		n.logger.DebugContext(ctx, "event filtered out",
			slog.String("event", event),
		)
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// NotifyExport announces a delivered export.
func (n *Notifier) NotifyExport(ctx context.Context, rec domain.ExportRecord) error {
	return n.Notify(ctx, EventExportCompleted, "Export completed", ExportMessage(rec))
}

// ExportMessage renders the body of an export_completed notification.
func ExportMessage(rec domain.ExportRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d records, %d bytes)\n", rec.Filename, rec.Records, rec.Bytes)
	fmt.Fprintf(&b, "location: %s", rec.Location)

	c := rec.Criteria
	var filters []string
	if c.Search != "" {
		filters = append(filters, "search="+c.Search)
	}
	if c.Category != "" {
		filters = append(filters, "category="+c.Category)
	}
	if c.ActiveOnly {
		filters = append(filters, "active_only")
	}
	if len(filters) > 0 {
		fmt.Fprintf(&b, "\nfilters: %s", strings.Join(filters, ", "))
	}
	return b.String()
}

// dispatch sends to every sender. A single sender failure does not prevent
// delivery to the rest; failures are combined into one error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		} else {
			n.logger.DebugContext(ctx, "notification sent",
				slog.String("sender", s.Name()),
				slog.String("title", title),
			)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
