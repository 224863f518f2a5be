// internal/app/status_poller.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is both the polling cadence and the retry delay.
const DefaultPollInterval = 600 * time.Second

// Fetcher returns the raw API body for all changes since cursor.
type Fetcher interface {
	Fetch(ctx context.Context, cursor homework.Cursor) ([]byte, error)
}

// PollerConfig holds the poller's construction-time settings.
type PollerConfig struct {
	Interval      time.Duration
	InitialCursor homework.Cursor
}

// CycleResult describes what a single cycle did.
type CycleResult struct {
	Report     homework.Report // report computed this cycle; zero for quiet failures
	Err        error           // cycle failure, if any
	Quiet      bool            // failure was logged only
	Duplicate  bool            // report equals the last dispatched one
	Dispatched bool
}

// StatusPoller runs the fetch, validate, interpret, dedup, notify cycle.
// It is the only owner of the cursor and the last dispatched report.
type StatusPoller struct {
	fetcher   Fetcher
	notifier  Notifier
	stateRepo homework.StateRepository // optional
	logger    *logrus.Entry
	interval  time.Duration

	cursor     homework.Cursor
	lastReport homework.Report

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewStatusPoller(
	fetcher Fetcher,
	notifier Notifier,
	stateRepo homework.StateRepository,
	cfg PollerConfig,
	logger *logrus.Entry,
) *StatusPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusPoller{
		fetcher:   fetcher,
		notifier:  notifier,
		stateRepo: stateRepo,
		logger:    logger,
		interval:  interval,
		cursor:    cfg.InitialCursor,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

// Cursor returns the current from_date watermark.
func (p *StatusPoller) Cursor() homework.Cursor { return p.cursor }

// LastReport returns the last successfully dispatched report.
func (p *StatusPoller) LastReport() homework.Report { return p.lastReport }

// Restore loads persisted state so a restart does not repeat the last notification.
// A missing state keeps the configured initial cursor.
func (p *StatusPoller) Restore(ctx context.Context) error {
	if p.stateRepo == nil {
		return nil
	}
	state, err := p.stateRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, homework.ErrStateNotFound) {
			p.logger.WithField("from_date", int64(p.cursor)).Info("No saved poller state, starting from the initial cursor")
			return nil
		}
		return fmt.Errorf("failed to restore poller state: %w", err)
	}

	p.cursor = state.Cursor
	p.lastReport = state.Report
	p.logger.WithFields(logrus.Fields{
		"from_date":   int64(state.Cursor),
		"report_kind": state.Report.Kind,
		"updated_at":  state.UpdatedAt.Format(time.RFC3339),
	}).Info("Poller state restored")
	return nil
}

// Run repeats cycles with a fixed sleep between them until ctx is cancelled.
func (p *StatusPoller) Run(ctx context.Context) error {
	p.logger.WithField("interval", p.interval.String()).Info("Status poller started")
	for {
		p.RunCycle(ctx)
		if err := p.sleep(ctx, p.interval); err != nil {
			p.logger.Info("Status poller stopped")
			return err
		}
	}
}

// RunCycle performs exactly one poll cycle.
func (p *StatusPoller) RunCycle(ctx context.Context) CycleResult {
	report, next, err := p.evaluate(ctx)
	if err != nil {
		if isQuiet(err) {
			p.logger.WithError(err).WithField("kind", homework.KindOf(err)).Error("Malformed API response, not reporting to chat")
			return CycleResult{Err: err, Quiet: true}
		}
		p.logger.WithError(err).WithField("kind", homework.KindOf(err)).Error("Cycle failed")
		report = homework.NewErrorReport(err)
	}

	result := CycleResult{Report: report, Err: err}
	if report == p.lastReport {
		p.logger.WithField("report_kind", report.Kind).Debug("Report unchanged, nothing to send")
		result.Duplicate = true
		return result
	}

	if !p.notifier.Dispatch(ctx, report.Message) {
		// stored report stays put, so the next differing cycle retries
		return result
	}
	result.Dispatched = true

	p.lastReport = report
	if report.AdvancesCursor() {
		p.cursor = next
	}
	p.persist(ctx)
	return result
}

// evaluate computes this cycle's report and the server's next cursor.
func (p *StatusPoller) evaluate(ctx context.Context) (homework.Report, homework.Cursor, error) {
	raw, err := p.fetcher.Fetch(ctx, p.cursor)
	if err != nil {
		return homework.Report{}, 0, err
	}

	batch, err := homework.Validate(raw)
	if err != nil {
		return homework.Report{}, 0, err
	}

	record, ok := batch.Newest()
	if !ok {
		return homework.NewNoUpdatesReport(), batch.CurrentDate, nil
	}

	message, err := homework.Interpret(record)
	if err != nil {
		return homework.Report{}, 0, err
	}
	return homework.NewStatusReport(record.Name, message), batch.CurrentDate, nil
}

func (p *StatusPoller) persist(ctx context.Context) {
	if p.stateRepo == nil {
		return
	}
	state := homework.State{Cursor: p.cursor, Report: p.lastReport, UpdatedAt: p.now()}
	if err := p.stateRepo.Save(ctx, state); err != nil {
		p.logger.WithError(err).Error("Failed to save poller state")
	}
}

// isQuiet reports failures that are logged but never sent to the chat:
// format errors raised while validating the response.
func isQuiet(err error) bool {
	var he *homework.Error
	return errors.As(err, &he) && he.Kind == homework.KindFormat && he.Op == homework.OpValidate
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
