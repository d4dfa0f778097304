package ingestor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"prtlog/internal/domain"
	"prtlog/internal/history"
	"prtlog/internal/metrics"
	"prtlog/internal/timetable"
	"prtlog/pkg/truetime"
)

// Feed yields the current live arrival predictions for the configured stops.
type Feed interface {
	Predictions(ctx context.Context) ([]truetime.Prediction, error)
}

// Ingestor runs the live-collection loop: poll the feed, append one
// observation per prediction, sleep, repeat. Cancellation is only honored
// between cycles, so a poll-and-append cycle always runs to completion; after
// cancellation the two finalization passes run sequentially over the full
// log.
type Ingestor struct {
	feed     Feed
	log      *history.Log
	index    *timetable.Index
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Collector

	ready    bool
	recorded int64
	mu       sync.RWMutex
}

func New(feed Feed, log *history.Log, index *timetable.Index, interval time.Duration, logger *slog.Logger, m *metrics.Collector) *Ingestor {
	return &Ingestor{
		feed:     feed,
		log:      log,
		index:    index,
		interval: interval,
		logger:   logger.With("component", "ingestor"),
		metrics:  m,
	}
}

// Run polls until ctx is cancelled, then finalizes the log and returns.
func (i *Ingestor) Run(ctx context.Context) error {
	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()

	i.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return i.Finalize()
		case <-ticker.C:
			i.poll(ctx)
		}
	}
}

func (i *Ingestor) poll(ctx context.Context) {
	start := time.Now()

	predictions, err := i.feed.Predictions(ctx)
	if err != nil {
		// transient: treat as "no predictions this cycle"
		i.logger.Error("failed to fetch predictions", "error", err)
		i.metrics.FeedErrors.Inc()
		return
	}

	observations := make([]domain.Observation, 0, len(predictions))
	for _, p := range predictions {
		date, clock, err := domain.ServiceStart(p.StartDate, p.StartSeconds)
		if err != nil {
			i.logger.Warn("skipping prediction with malformed start",
				"trip_id", p.TripID,
				"start_date", p.StartDate,
				"error", err,
			)
			continue
		}
		observations = append(observations, domain.Observation{
			TripID:             p.TripID,
			LogTime:            p.LogTime,
			StopName:           p.StopName,
			StopID:             p.StopID,
			RouteID:            p.RouteID,
			Direction:          p.Direction,
			ScheduledStartDate: date,
			ScheduledStartTime: clock,
			ActualArrivalTime:  p.PredictedTime,
		})
	}

	if err := i.log.Append(observations); err != nil {
		i.logger.Error("failed to append observations", "error", err)
		return
	}

	i.mu.Lock()
	i.ready = true
	i.recorded += int64(len(observations))
	i.mu.Unlock()

	i.metrics.PollCycles.Inc()
	i.metrics.PredictionsRecorded.Add(float64(len(observations)))
	i.metrics.PollDuration.Observe(time.Since(start).Seconds())

	i.logger.Debug("poll completed",
		"predictions", len(predictions),
		"recorded", len(observations),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Finalize runs the deduplication pass and then the schedule-matching pass,
// each rewriting the log in full.
func (i *Ingestor) Finalize() error {
	i.logger.Info("finalizing history log")

	lines, err := i.log.Lines()
	if err != nil {
		return err
	}

	deduped, removed := history.Deduplicate(lines)
	if err := i.log.Rewrite(deduped); err != nil {
		return err
	}
	i.metrics.DuplicatesRemoved.Set(float64(removed))

	matchedLines, matched, dropped := history.MatchSchedule(deduped, i.index)
	if err := i.log.Rewrite(matchedLines); err != nil {
		return err
	}
	i.metrics.RowsMatched.Set(float64(matched))
	i.metrics.RowsDropped.Set(float64(dropped))

	i.logger.Info("history log finalized",
		"duplicates_removed", removed,
		"matched", matched,
		"dropped", dropped,
		"lines", len(matchedLines),
	)
	return nil
}

// IsReady reports whether at least one poll-and-append cycle has completed.
func (i *Ingestor) IsReady() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ready
}

// Recorded is the number of observations appended so far this run.
func (i *Ingestor) Recorded() int64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.recorded
}
