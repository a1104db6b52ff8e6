package storage

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stockroom/internal/core/store"
)

var tracer = otel.Tracer("stockroom/store")

// OpRecorder receives one call per store operation.
type OpRecorder interface {
	StoreOp(op, key string, err error, elapsed time.Duration)
}

// Instrumented decorates a store with spans and operation metrics.
// Watch and Ping pass through when the wrapped driver supports them.
type Instrumented struct {
	next     store.Store
	recorder OpRecorder
	driver   string
}

// Instrument wraps s. A nil recorder records spans only.
func Instrument(s store.Store, driver string, recorder OpRecorder) *Instrumented {
	return &Instrumented{next: s, recorder: recorder, driver: driver}
}

// Unwrap returns the decorated driver.
func (i *Instrumented) Unwrap() store.Store { return i.next }

// Read implements store.Store.
func (i *Instrumented) Read(ctx context.Context, key string) ([]byte, error) {
	ctx, span := i.start(ctx, "store.read", key)
	defer span.End()

	began := time.Now()
	v, err := i.next.Read(ctx, key)
	// A missing key is a normal outcome, not a failure.
	i.finish(span, "read", key, ignoreNotFound(err), began)
	return v, err
}

// Write implements store.Store.
func (i *Instrumented) Write(ctx context.Context, key string, value []byte) error {
	ctx, span := i.start(ctx, "store.write", key)
	defer span.End()
	span.SetAttributes(attribute.Int("store.bytes", len(value)))

	began := time.Now()
	err := i.next.Write(ctx, key, value)
	i.finish(span, "write", key, err, began)
	return err
}

// Watch implements store.Watcher when the driver does.
func (i *Instrumented) Watch(ctx context.Context, key string) (<-chan store.Change, error) {
	w, ok := i.next.(store.Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx, key)
}

// Ping checks driver connectivity when the driver supports it.
func (i *Instrumented) Ping(ctx context.Context) error {
	if p, ok := i.next.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close implements store.Store.
func (i *Instrumented) Close() error { return i.next.Close() }

func (i *Instrumented) start(ctx context.Context, name, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("store.driver", i.driver),
		attribute.String("store.key", key),
	))
}

func (i *Instrumented) finish(span trace.Span, op, key string, err error, began time.Time) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if i.recorder != nil {
		i.recorder.StoreOp(op, key, err, time.Since(began))
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// ErrWatchUnsupported is returned by Watch for drivers without a change feed.
var ErrWatchUnsupported = errors.New("store: driver does not support watch")
