// Package telegram отправляет best-effort уведомления администратору.
// Контракт: вызов никогда не возвращает ошибку наружу и не влияет на
// вызывающую операцию - сбой доставки только логируется.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	sendTimeout       = 5 * time.Second
)

// CredentialsSource выдает актуальные учетные данные бота. Они живут в
// системных настройках и могут меняться без рестарта процесса.
type CredentialsSource interface {
	TelegramCredentials(ctx context.Context) (token, chatID string, err error)
}

type Notifier struct {
	creds      CredentialsSource
	l          *logrus.Entry
	baseURL    string
	httpClient *http.Client
}

func New(creds CredentialsSource, l *logrus.Logger) *Notifier {
	return &Notifier{
		creds:      creds,
		l:          l.WithField("component", "telegram"),
		baseURL:    defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: sendTimeout},
	}
}

// SetBaseURL переопределяет адрес API (для тестов).
func (n *Notifier) SetBaseURL(baseURL string) *Notifier {
	n.baseURL = baseURL
	return n
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Notify отправляет сообщение администратору. Любая проблема - отсутствие
// настроек, сетевая ошибка, не-2xx ответ - поглощается с записью в лог.
func (n *Notifier) Notify(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	token, chatID, credErr := n.creds.TelegramCredentials(ctx)
	if credErr != nil {
		n.l.WithError(credErr).Warn("reading telegram credentials")
		return
	}
	if token == "" || chatID == "" {
		n.l.Debug("telegram credentials are not configured, skipping notification")
		return
	}

	body, marshalErr := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if marshalErr != nil {
		n.l.WithError(marshalErr).Warn("encoding telegram message")
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, token)
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		n.l.WithError(reqErr).Warn("building telegram request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := n.httpClient.Do(req)
	if doErr != nil {
		n.l.WithError(doErr).Warn("sending telegram notification")
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		n.l.WithField("status", resp.StatusCode).Warn("telegram responded with an error")
	}
}
