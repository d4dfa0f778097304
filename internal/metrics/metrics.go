package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	PollCycles          prometheus.Counter
	FeedErrors          prometheus.Counter
	PredictionsRecorded prometheus.Counter

	DuplicatesRemoved prometheus.Gauge
	RowsMatched       prometheus.Gauge
	RowsDropped       prometheus.Gauge

	TimetableRows prometheus.Gauge
	PollInterval  prometheus.Gauge // seconds

	PollDuration prometheus.Histogram
}

func NewCollector(pollInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		PollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prtlog_poll_cycles_total",
			Help: "Total live feed poll cycles completed.",
		}),
		FeedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prtlog_feed_errors_total",
			Help: "Total poll cycles that ended in a transient feed error.",
		}),
		PredictionsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prtlog_predictions_recorded_total",
			Help: "Total observations appended to the history log.",
		}),
		DuplicatesRemoved: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prtlog_duplicates_removed",
			Help: "Observations discarded by the finalization dedup pass.",
		}),
		RowsMatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prtlog_rows_matched",
			Help: "Observations enriched with a scheduled arrival time.",
		}),
		RowsDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prtlog_rows_dropped",
			Help: "Observations dropped for lacking a timetable match.",
		}),
		TimetableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prtlog_timetable_rows",
			Help: "Rows in the timetable built for this run.",
		}),
		PollInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prtlog_poll_interval_seconds",
			Help: "Configured poll interval in seconds.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prtlog_poll_duration_seconds",
			Help:    "Duration of one poll-and-append cycle.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	reg.MustRegister(
		c.PollCycles, c.FeedErrors, c.PredictionsRecorded,
		c.DuplicatesRemoved, c.RowsMatched, c.RowsDropped,
		c.TimetableRows, c.PollInterval, c.PollDuration,
	)

	c.PollInterval.Set(pollInterval.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
