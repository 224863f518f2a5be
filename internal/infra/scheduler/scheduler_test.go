package scheduler

import (
	"context"
	"errors"
	"testing"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type stubStateRepo struct {
	state homework.State
	err   error
}

func (s stubStateRepo) Load(context.Context) (homework.State, error) { return s.state, s.err }
func (s stubStateRepo) Save(context.Context, homework.State) error  { return nil }

func TestBeatLogsState(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		repo  stubStateRepo
		level logrus.Level
	}{
		{name: "saved state", repo: stubStateRepo{state: homework.State{Cursor: 1000, Report: homework.NewNoUpdatesReport()}}, level: logrus.InfoLevel},
		{name: "nothing saved", repo: stubStateRepo{err: homework.ErrStateNotFound}, level: logrus.InfoLevel},
		{name: "store failure", repo: stubStateRepo{err: errors.New("db down")}, level: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, hook := test.NewNullLogger()
			s := NewHeartbeatScheduler(tt.repo, logrus.NewEntry(logger), "0 9 * * *")

			s.Beat(context.Background())

			entry := hook.LastEntry()
			if entry == nil || entry.Level != tt.level {
				t.Fatalf("last entry = %+v, want level %s", entry, tt.level)
			}
		})
	}
}

func TestBeatIncludesCursor(t *testing.T) {
	t.Parallel()
	logger, hook := test.NewNullLogger()
	repo := stubStateRepo{state: homework.State{Cursor: 1000, Report: homework.NewStatusReport("X", "msg")}}
	NewHeartbeatScheduler(repo, logrus.NewEntry(logger), "0 9 * * *").Beat(context.Background())

	if got := hook.LastEntry().Data["from_date"]; got != int64(1000) {
		t.Fatalf("from_date = %v, want 1000", got)
	}
	if got := hook.LastEntry().Data["homework_name"]; got != "X" {
		t.Fatalf("homework_name = %v, want X", got)
	}
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	t.Parallel()
	logger, _ := test.NewNullLogger()
	s := NewHeartbeatScheduler(stubStateRepo{}, logrus.NewEntry(logger), "every tuesday")
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()
	logger, _ := test.NewNullLogger()
	s := NewHeartbeatScheduler(stubStateRepo{}, logrus.NewEntry(logger), "@every 1h")
	if err := s.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	s.Stop()
}
