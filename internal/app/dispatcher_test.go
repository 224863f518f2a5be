package app

import (
	"context"
	"errors"
	"testing"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeTelegramClient struct {
	chatIDs []int64
	texts   []string
	err     error
}

func (c *fakeTelegramClient) SendText(chatID int64, text string) error {
	c.chatIDs = append(c.chatIDs, chatID)
	c.texts = append(c.texts, text)
	return c.err
}

func TestDispatchSuccess(t *testing.T) {
	t.Parallel()
	client := &fakeTelegramClient{}
	logger, _ := test.NewNullLogger()
	d := NewDispatcher(client, 42, 0, logrus.NewEntry(logger))

	if !d.Dispatch(context.Background(), "hello") {
		t.Fatal("Dispatch returned false")
	}
	if len(client.texts) != 1 || client.texts[0] != "hello" || client.chatIDs[0] != 42 {
		t.Fatalf("sent %v to %v", client.texts, client.chatIDs)
	}
}

func TestDispatchChannelFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	client := &fakeTelegramClient{err: errors.New("telegram: chat not found (400)")}
	logger, hook := test.NewNullLogger()
	d := NewDispatcher(client, 42, 1, logrus.NewEntry(logger))

	if d.Dispatch(context.Background(), "hello") {
		t.Fatal("Dispatch returned true for a failed send")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatal("failed send was not logged at error level")
	}
	if err, _ := entry.Data[logrus.ErrorKey].(error); !homework.IsKind(err, homework.KindDispatch) {
		t.Fatalf("logged error %v is not a dispatch error", entry.Data[logrus.ErrorKey])
	}
}

func TestDispatchCancelledContext(t *testing.T) {
	t.Parallel()
	client := &fakeTelegramClient{}
	logger, _ := test.NewNullLogger()
	d := NewDispatcher(client, 42, 1, logrus.NewEntry(logger))

	// drain the single token so Wait has to block
	if !d.Dispatch(context.Background(), "first") {
		t.Fatal("first Dispatch returned false")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if d.Dispatch(ctx, "second") {
		t.Fatal("Dispatch returned true with a cancelled context")
	}
	if len(client.texts) != 1 {
		t.Fatalf("sent %d messages, want 1", len(client.texts))
	}
}
