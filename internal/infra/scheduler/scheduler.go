package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// HeartbeatScheduler periodically logs the persisted poller state.
// It only reads from the store and never talks to the chat.
type HeartbeatScheduler struct {
	cronEngine *cron.Cron
	stateRepo  homework.StateRepository
	logger     *logrus.Entry
	cronSpec   string
	timeout    time.Duration
}

func NewHeartbeatScheduler(
	stateRepo homework.StateRepository,
	logger *logrus.Entry,
	cronSpec string, // e.g., "0 9 * * *" (9 AM daily)
) *HeartbeatScheduler {
	return &HeartbeatScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // Use server's local time for cron
			cron.WithLogger(cron.PrintfLogger(logger)),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		stateRepo: stateRepo,
		logger:    logger,
		cronSpec:  cronSpec,
		timeout:   30 * time.Second,
	}
}

// Start registers the heartbeat job and starts the cron engine.
func (s *HeartbeatScheduler) Start() error {
	s.logger.Info("Starting heartbeat scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.Beat(ctx)
	})
	if err != nil {
		return fmt.Errorf("could not add heartbeat cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Heartbeat scheduler started.")
	return nil
}

// Beat logs one snapshot of the persisted state.
func (s *HeartbeatScheduler) Beat(ctx context.Context) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, homework.ErrStateNotFound) {
			s.logger.Info("Heartbeat: bot is running, nothing has been sent yet")
			return
		}
		s.logger.WithError(err).Error("Heartbeat: failed to load poller state")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"from_date":     int64(state.Cursor),
		"report_kind":   state.Report.Kind,
		"homework_name": state.Report.HomeworkName,
		"updated_at":    state.UpdatedAt.Format(time.RFC3339),
	}).Info("Heartbeat: bot is running")
}

func (s *HeartbeatScheduler) Stop() {
	s.logger.Info("Stopping heartbeat scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Heartbeat scheduler gracefully stopped.")
}
