// Package worker runs background refreshes of the schedule workbook so
// request handlers never block on file generation.
package worker

import (
	"context"
	"errors"
	"time"

	"staffcal/internal/models"

	"github.com/rs/zerolog"
)

// Exporter renders the schedule for a date range and returns the file path.
type Exporter interface {
	Export(ctx context.Context, start, end time.Time) (string, error)
}

// refreshTask is a request to rebuild the workbook for a date range.
type refreshTask struct {
	start time.Time
	end   time.Time
}

// ExportWorker consumes refresh requests from a buffered queue and rebuilds
// the workbook with retries. Requests arriving while the queue already holds
// a pending refresh are coalesced into it, so a burst of booking changes
// produces a single rebuild.
type ExportWorker struct {
	exporter    Exporter
	retryPolicy RetryPolicy
	queue       chan refreshTask
	logger      zerolog.Logger
}

func NewExportWorker(exporter Exporter, retry RetryPolicy, logger zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ExportWorker{
		exporter:    exporter,
		retryPolicy: retry,
		queue:       make(chan refreshTask, models.WorkerQueueSize),
		logger:      logger.With().Str("component", "export_worker").Logger(),
	}
}

// EnqueueRefresh schedules a workbook rebuild covering the given range.
// It never blocks: when the queue is full the request is dropped, the
// pending refresh will pick up the same data anyway.
func (w *ExportWorker) EnqueueRefresh(ctx context.Context, start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return errors.New("export range is required")
	}
	if end.Before(start) {
		return errors.New("export range is inverted")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case w.queue <- refreshTask{start: start, end: end}:
		return nil
	default:
		w.logger.Warn().Msg("export queue full, refresh request dropped")
		return nil
	}
}

// Start launches the main loop; it stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			task = w.coalesce(task)
			w.process(ctx, task)
		}
	}
}

// coalesce drains queued tasks into one covering the union of their ranges.
func (w *ExportWorker) coalesce(task refreshTask) refreshTask {
	for {
		select {
		case next := <-w.queue:
			if next.start.Before(task.start) {
				task.start = next.start
			}
			if next.end.After(task.end) {
				task.end = next.end
			}
		default:
			return task
		}
	}
}

func (w *ExportWorker) process(ctx context.Context, task refreshTask) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		path, err := w.exporter.Export(ctx, task.start, task.end)
		if err == nil {
			w.logger.Info().Str("file_path", path).Msg("schedule refreshed")
			return
		}

		w.logger.Error().Err(err).Int("attempt", attempt).Msg("schedule refresh failed")
		if attempt == w.retryPolicy.MaxRetries {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
}

// DefaultRange returns the export window around now, per configured months.
func DefaultRange(now time.Time) (time.Time, time.Time) {
	start := now.AddDate(0, -models.DefaultExportRangeMonthsBefore, 0)
	end := now.AddDate(0, models.DefaultExportRangeMonthsAfter, 0)
	return start, end
}
