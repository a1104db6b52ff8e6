package main

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/app"
	"stockroom/internal/config"
	"stockroom/internal/core/events"
	v1 "stockroom/internal/infrastructure/http/v1"
	"stockroom/internal/infrastructure/storage/memory"
	"stockroom/pkg/logger"
)

func TestServer_ShutdownEndsEventStreams(t *testing.T) {
	a := app.New(memory.New(), app.Options{Location: time.UTC})
	cfg := a.RouterConfig()
	cfg.Logger = logger.Nop()
	bus := cfg.Bus

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	server := newServer(ctx, config.HTTPConfig{Addr: ln.Addr().String()}, v1.NewRouter(cfg))
	go func() { _ = server.Serve(ln) }()

	connected := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/events")
		if err != nil {
			return
		}
		defer resp.Body.Close()
		sc := bufio.NewScanner(resp.Body)
		if sc.Scan() {
			close(connected)
		}
		for sc.Scan() {
		}
	}()

	require.Eventually(t, func() bool {
		bus.Publish(ctx, events.Event{Type: events.BackupRestored})
		select {
		case <-connected:
			return true
		default:
			return false
		}
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	assert.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("event stream still open after shutdown")
	}
}
