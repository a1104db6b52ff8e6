// Package notify delivers text alerts to external channels.
package notify

import (
	"context"
	"errors"
	"fmt"

	"stockroom/pkg/logger"
)

// Message is a single alert.
type Message struct {
	Subject string
	Text    string
}

// Notifier sends alerts to one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Recorder observes delivery outcomes.
type Recorder interface {
	AlertSent(channel string, err error)
}

// Fanout sends every message to all notifiers. With no notifiers the
// message is only logged.
type Fanout struct {
	notifiers []Notifier
	recorder  Recorder
}

// NewFanout creates a fanout over the given notifiers; recorder may be nil.
func NewFanout(recorder Recorder, notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers, recorder: recorder}
}

// Len returns the number of configured channels.
func (f *Fanout) Len() int { return len(f.notifiers) }

// Notify delivers msg to every channel and joins the failures.
func (f *Fanout) Notify(ctx context.Context, msg Message) error {
	if len(f.notifiers) == 0 {
		logger.Info(ctx, "no alert channel configured", "subject", msg.Subject, "text", msg.Text)
		return nil
	}

	var errs []error
	for _, n := range f.notifiers {
		err := n.Notify(ctx, msg)
		if f.recorder != nil {
			f.recorder.AlertSent(n.Name(), err)
		}
		if err != nil {
			logger.Error(ctx, "alert delivery failed", "channel", n.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		logger.Debug(ctx, "alert delivered", "channel", n.Name())
	}
	return errors.Join(errs...)
}

// Name implements Notifier.
func (f *Fanout) Name() string { return "fanout" }
