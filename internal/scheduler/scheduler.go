package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"GasSentinel/internal/analyzer"
	"GasSentinel/internal/calculator"
	"GasSentinel/internal/collector"
	"GasSentinel/internal/model"
	"GasSentinel/internal/notifier"
	"GasSentinel/internal/recorder"
)

// Scheduler polls the gas oracle on a fixed interval and feeds valid samples
// into the analyzer.
type Scheduler struct {
	Collector  *collector.Collector
	Analyzer   *analyzer.Analyzer
	Recorder   recorder.Recorder
	Alerter    *notifier.PriceAlerter
	Thresholds model.Thresholds
	Location   *time.Location

	log logrus.FieldLogger

	mu        sync.Mutex
	cron      *cron.Cron
	ctx       context.Context
	running   bool
	gen       int
	latest    model.Sample
	hasLatest bool
}

// NewScheduler creates a new Scheduler. rec may be nil.
func NewScheduler(col *collector.Collector, an *analyzer.Analyzer, rec recorder.Recorder, logger logrus.FieldLogger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Collector: col,
		Analyzer:  an,
		Recorder:  rec,
		Location:  time.UTC,
		log:       logger,
	}
}

// Start runs one polling cycle immediately and then every intervalMinutes.
// Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return model.ErrInvalidInterval
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.gen++
	gen := s.gen
	s.ctx = ctx
	s.mu.Unlock()
	s.log.Infof("gas sentinel started, polling %s every %d minute(s)", s.Collector.Fetcher.Name(), intervalMinutes)

	s.runCycle()

	cronLog := cron.PrintfLogger(s.log)
	c := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %dm", intervalMinutes), s.runCycle); err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.running = false
		}
		s.mu.Unlock()
		return fmt.Errorf("register polling task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.gen != gen {
		// Stopped (or restarted) during the first cycle.
		return nil
	}
	s.cron = c
	c.Start()
	return nil
}

// Stop halts polling. A cycle already fetching discards its sample.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		c.Stop()
	}
	s.log.Info("gas sentinel stopped")
}

// IsRunning reports whether polling is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LatestSample returns the most recently ingested sample.
func (s *Scheduler) LatestSample() (model.Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasLatest
}

func (s *Scheduler) runCycle() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	gen := s.gen
	s.mu.Unlock()

	sample, err := s.Collector.Collect(ctx)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSample) {
			s.log.Warnf("discarding sample: %v", err)
		} else {
			s.log.Errorf("collect: %v", err)
		}
		return
	}

	s.mu.Lock()
	if !s.running || s.gen != gen {
		// Stopped, and possibly restarted, while the fetch was in flight.
		s.mu.Unlock()
		s.log.Debug("stopped during fetch, dropping sample")
		return
	}
	s.latest = sample
	s.hasLatest = true
	s.Analyzer.AddSample(sample)
	s.mu.Unlock()

	s.observe(ctx, sample)
}

// observe logs, records and alerts on a freshly ingested sample. Failures
// here never affect polling.
func (s *Scheduler) observe(ctx context.Context, sample model.Sample) {
	trend := s.Analyzer.Trend()
	rec := s.Analyzer.Recommend()
	s.log.WithFields(logrus.Fields{
		"slow":     sample.Slow,
		"standard": sample.Standard,
		"fast":     sample.Fast,
		"trend":    trend,
		"label":    rec.Label,
	}).Info("gas prices updated")

	if err := s.Recorder.RecordSample(&recorder.SampleSnapshot{
		Sample:         sample,
		Trend:          trend,
		Recommendation: rec,
	}); err != nil {
		s.log.Errorf("record sample: %v", err)
	}

	if s.Alerter != nil {
		if _, err := s.Alerter.Check(ctx, sample); err != nil {
			s.log.Errorf("send alert: %v", err)
		}
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	command = strings.TrimSpace(command)
	// Group chats address commands as /price@BotName.
	command, _, _ = strings.Cut(command, "@")

	switch strings.ToLower(command) {
	case "/price":
		latest, ok := s.LatestSample()
		return notifier.FormatPrices(latest, ok, calculator.ClassifyLevel(latest.Standard, s.Thresholds), s.Location)
	case "/recommend":
		return notifier.FormatRecommendation(s.Analyzer.Recommend())
	case "/trend":
		avg, ok := s.Analyzer.AveragePrice(1)
		return notifier.FormatTrend(s.Analyzer.Trend(), avg, ok)
	case "/stats":
		stats, _ := s.Analyzer.Statistics()
		return notifier.FormatStatistics(stats, s.Analyzer.Len(), s.Analyzer.Limit())
	default:
		return notifier.HelpText
	}
}
