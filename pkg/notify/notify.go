// Package notify delivers transient shopper-facing messages.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Notification is a single message; wording is presentational, severity is not.
type Notification struct {
	Severity enums.Severity `json:"severity"`
	Message  string         `json:"message"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Success, Warning and Error are shorthands for Notify with a fixed severity.
func Success(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notification{Severity: enums.SeveritySuccess, Message: msg})
}

func Warning(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notification{Severity: enums.SeverityWarning, Message: msg})
}

func Error(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notification{Severity: enums.SeverityError, Message: msg})
}

// FromError maps a typed error to its notification.
func FromError(err error) Notification {
	severity, msg := pkgerrors.Notice(err)
	return Notification{Severity: severity, Message: msg}
}

// Multi fans a notification out to every sink.
func Multi(sinks ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, sink := range sinks {
			if sink != nil {
				sink.Notify(ctx, n)
			}
		}
	})
}

// LogNotifier records notifications in the structured log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	if l == nil || l.logg == nil {
		return
	}
	ctx = l.logg.WithField(ctx, "severity", n.Severity.String())
	switch n.Severity {
	case enums.SeverityError:
		l.logg.Error(ctx, n.Message, nil)
	case enums.SeverityWarning:
		l.logg.Warn(ctx, n.Message)
	default:
		l.logg.Info(ctx, n.Message)
	}
}

// WriterNotifier prints notifications as "[severity] message" lines.
type WriterNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriterNotifier(out io.Writer) *WriterNotifier {
	return &WriterNotifier{out: out}
}

func (w *WriterNotifier) Notify(_ context.Context, n Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "[%s] %s\n", n.Severity, n.Message)
}

// Recorder keeps every notification in order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
