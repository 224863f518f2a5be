// internal/app/dispatcher.go
package app

import (
	"context"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Notifier delivers one message and reports whether it was delivered.
type Notifier interface {
	Dispatch(ctx context.Context, message string) bool
}

// Dispatcher sends messages to a single chat through the messaging channel.
// Channel failures are logged and reported as false, never returned.
type Dispatcher struct {
	client  domainTelegram.Client
	chatID  int64
	limiter *rate.Limiter
	logger  *logrus.Entry
}

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(client domainTelegram.Client, chatID int64, ratePerSec int, logger *logrus.Entry) *Dispatcher {
	limit := rate.Inf
	burst := 1
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
		burst = ratePerSec
	}
	return &Dispatcher{
		client:  client,
		chatID:  chatID,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Dispatch sends message to the configured chat.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) bool {
	logCtx := d.logger.WithField("chat_id", d.chatID)
	logCtx.WithField("message", message).Info("Sending message to chat")

	if err := d.limiter.Wait(ctx); err != nil {
		logCtx.WithError(homework.NewDispatchError(err)).Error("Message not sent: rate limiter wait aborted")
		return false
	}

	if err := d.client.SendText(d.chatID, message); err != nil {
		logCtx.WithError(homework.NewDispatchError(err)).Error("Failed to send message to chat")
		return false
	}

	logCtx.WithField("message", message).Debug("Message sent")
	return true
}
