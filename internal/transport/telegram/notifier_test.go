package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCreds struct {
	token  string
	chatID string
	err    error
}

func (s stubCreds) TelegramCredentials(_ context.Context) (string, string, error) {
	return s.token, s.chatID, s.err
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNotifier_Notify(t *testing.T) {
	var got sendMessageRequest
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/bot123:token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(stubCreds{token: "123:token", chatID: "555"}, testLogger()).SetBaseURL(srv.URL)
	n.Notify(t.Context(), "новый заказ")

	assert.Equal(t, 1, calls)
	assert.Equal(t, "555", got.ChatID)
	assert.Equal(t, "новый заказ", got.Text)
	assert.Equal(t, "HTML", got.ParseMode)
}

func TestNotifier_Notify_SwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cases := []struct {
		name  string
		creds stubCreds
	}{
		{name: "http error", creds: stubCreds{token: "t", chatID: "c"}},
		{name: "missing credentials", creds: stubCreds{}},
		{name: "credentials source failed", creds: stubCreds{err: errors.New("db down")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := New(tc.creds, testLogger()).SetBaseURL(srv.URL)
			// не должно ни паниковать, ни возвращать ошибку
			n.Notify(t.Context(), "ping")
		})
	}
}
