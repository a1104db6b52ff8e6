package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	channel string
	err     error
}

type fakeRecorder struct{ calls []recorded }

func (r *fakeRecorder) AlertSent(channel string, err error) {
	r.calls = append(r.calls, recorded{channel, err})
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, f.err
}

func TestWebhook_Notify(t *testing.T) {
	var got webhookPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(WebhookConfig{URL: srv.URL, Token: "secret"})
	require.NoError(t, wh.Notify(context.Background(), Message{Subject: "Low stock", Text: "Onions: 5"}))
	assert.Equal(t, "Low stock", got.Subject)
	assert.Equal(t, "Onions: 5", got.Text)
	assert.Equal(t, "Bearer secret", auth)
}

func TestWebhook_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(WebhookConfig{URL: srv.URL}).Notify(context.Background(), Message{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}

func TestTelegram_Notify(t *testing.T) {
	sender := &fakeSender{}
	tg := &Telegram{api: sender, chatID: 42}

	require.NoError(t, tg.Notify(context.Background(), Message{Subject: "Low stock", Text: "Onions: 5"}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "Low stock\n\nOnions: 5", sender.sent[0].Text)
}

func TestFanout_JoinsFailures(t *testing.T) {
	rec := &fakeRecorder{}
	ok := &Telegram{api: &fakeSender{}, chatID: 1}
	broken := &Telegram{api: &fakeSender{err: errors.New("blocked")}, chatID: 2}

	err := NewFanout(rec, ok, broken).Notify(context.Background(), Message{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
	require.Len(t, rec.calls, 2)
	assert.NoError(t, rec.calls[0].err)
	assert.Error(t, rec.calls[1].err)
}

func TestFanout_Empty(t *testing.T) {
	f := NewFanout(nil)
	assert.Zero(t, f.Len())
	assert.NoError(t, f.Notify(context.Background(), Message{Text: "x"}))
}
