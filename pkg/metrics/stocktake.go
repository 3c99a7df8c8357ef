package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StocktakeMetrics tracks the counting workflow end to end.
type StocktakeMetrics struct {
	sessionsStarted prometheus.Counter
	recordsSaved    prometheus.Counter
	recordsApplied  prometheus.Counter
	linesDrifted    prometheus.Counter
}

// NewStocktakeMetrics registers the stocktake metrics on the provided registerer.
func NewStocktakeMetrics(reg prometheus.Registerer) *StocktakeMetrics {
	if reg == nil {
		return &StocktakeMetrics{}
	}
	sessionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stocktake_sessions_started_total",
		Help: "Counting sessions started.",
	})
	recordsSaved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stocktake_records_saved_total",
		Help: "Stocktake records saved.",
	})
	recordsApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stocktake_records_applied_total",
		Help: "Stocktake records applied to inventory.",
	})
	linesDrifted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stocktake_lines_drifted_total",
		Help: "Correction lines skipped because the live quantity moved after the count.",
	})
	reg.MustRegister(sessionsStarted, recordsSaved, recordsApplied, linesDrifted)
	return &StocktakeMetrics{
		sessionsStarted: sessionsStarted,
		recordsSaved:    recordsSaved,
		recordsApplied:  recordsApplied,
		linesDrifted:    linesDrifted,
	}
}

// IncSessionStarted increments the started-session counter.
func (s *StocktakeMetrics) IncSessionStarted() {
	if s == nil || s.sessionsStarted == nil {
		return
	}
	s.sessionsStarted.Inc()
}

// IncRecordSaved increments the saved-record counter.
func (s *StocktakeMetrics) IncRecordSaved() {
	if s == nil || s.recordsSaved == nil {
		return
	}
	s.recordsSaved.Inc()
}

// IncRecordApplied increments the applied-record counter.
func (s *StocktakeMetrics) IncRecordApplied() {
	if s == nil || s.recordsApplied == nil {
		return
	}
	s.recordsApplied.Inc()
}

// AddLinesDrifted counts correction lines that were skipped on apply.
func (s *StocktakeMetrics) AddLinesDrifted(n int) {
	if s == nil || s.linesDrifted == nil || n <= 0 {
		return
	}
	s.linesDrifted.Add(float64(n))
}
