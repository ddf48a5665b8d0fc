// Package scheduler runs the watch mode: a cron task that re-analyzes every
// tracked symbol from the bar store and pushes the resulting signal cards.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ChipLens/internal/analyzer"
	"ChipLens/internal/chip"
	"ChipLens/internal/notifier"
	"ChipLens/internal/store"
)

// Scheduler manages the periodic analysis task.
type Scheduler struct {
	cron     *cron.Cron
	store    *store.Store
	analyzer *analyzer.Analyzer
	notifier notifier.Notifier
	symbols  []string
	log      *zap.SugaredLogger
	ctx      context.Context
}

// New creates a Scheduler. When symbols is empty, every symbol present in
// the store is analyzed on each tick.
func New(ctx context.Context, st *store.Store, an *analyzer.Analyzer, nt notifier.Notifier, symbols []string, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		store:    st,
		analyzer: an,
		notifier: nt,
		symbols:  symbols,
		log:      log,
		ctx:      ctx,
	}
}

// Register registers the analysis task under the given cron expression.
func (s *Scheduler) Register(cronExpr string) error {
	if _, err := s.cron.AddFunc(cronExpr, s.scanTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunNow executes the analysis task immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	symbols := s.symbols
	if len(symbols) == 0 {
		var err error
		symbols, err = s.store.Symbols()
		if err != nil {
			s.log.Errorw("list symbols", "err", err)
			return
		}
	}
	if len(symbols) == 0 {
		s.log.Warn("no symbols in store, nothing to analyze")
		return
	}

	for _, symbol := range symbols {
		s.analyzeOne(symbol)
	}
}

func (s *Scheduler) analyzeOne(symbol string) {
	bars, err := s.store.LoadBars(symbol)
	if err != nil {
		s.log.Errorw("load bars", "symbol", symbol, "err", err)
		return
	}

	result, ok := s.analyzer.Analyze(bars)
	if !ok {
		s.log.Infow("insufficient data, skipping", "symbol", symbol, "bars", len(bars), "min", chip.MinBars)
		return
	}

	s.log.Infow("analysis complete",
		"symbol", symbol,
		"date", result.Date,
		"signal", result.Prediction.Signal,
		"score", result.Prediction.Score,
		"confidence", result.Prediction.Confidence,
		"morphology", result.Metrics.Morphology,
	)

	card := notifier.FormatSignalCard(symbol, result)
	if err := s.notifier.SendWithRetry(s.ctx, card, 3); err != nil {
		s.log.Errorw("send signal card", "symbol", symbol, "err", err)
	}
}
