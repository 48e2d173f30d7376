package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MTFSentinel/internal/model"
	"MTFSentinel/internal/notifier"
)

// Analyzer produces a signal for a symbol. An empty symbol means the configured default.
type Analyzer interface {
	Evaluate(ctx context.Context, symbol string) (*model.SignalResult, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the live monitor on a cron schedule and answers chat commands.
// It keeps only the last action in memory; nothing is persisted.
type Scheduler struct {
	Cron       *cron.Cron
	Analyzer   Analyzer
	Notifier   Sender
	Symbol     string
	Source     string
	ExecRule   string
	FilterRule string
	Ctx        context.Context

	mu          sync.Mutex
	monitorCron string
	lastAction  model.Action
	lastRun     time.Time
	lastErr     string
}

// NewScheduler creates a new Scheduler. notifier may be nil, in which case reports are only logged.
func NewScheduler(ctx context.Context, an Analyzer, n Sender, symbol, source, execRule, filterRule string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Analyzer:   an,
		Notifier:   n,
		Symbol:     symbol,
		Source:     source,
		ExecRule:   execRule,
		FilterRule: filterRule,
		Ctx:        ctx,
	}
}

// Register adds the monitor task.
func (s *Scheduler) Register(monitorCron string) error {
	if _, err := s.Cron.AddFunc(monitorCron, s.monitorTask); err != nil {
		return fmt.Errorf("register monitor task: %w", err)
	}
	s.mu.Lock()
	s.monitorCron = monitorCron
	s.mu.Unlock()
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the monitor task immediately (RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.monitorTask()
}

func (s *Scheduler) monitorTask() {
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Str("symbol", s.Symbol).Logger()
	logger.Info().Msg("running monitor task")

	res, err := s.Analyzer.Evaluate(s.Ctx, s.Symbol)

	s.mu.Lock()
	prevAction, prevErr := s.lastAction, s.lastErr
	s.lastRun = time.Now()
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
		s.lastAction = res.Action
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error().Err(err).Msg("monitor analysis failed")
		// Only the first failure of a streak is pushed.
		if prevErr == "" {
			s.trySend(notifier.FormatError(s.Symbol, err))
		}
		return
	}

	if res.Action == prevAction {
		logger.Debug().Str("action", string(res.Action)).Msg("action unchanged")
		return
	}
	logger.Info().Str("from", string(prevAction)).Str("to", string(res.Action)).Msg("action changed")
	s.trySend(notifier.FormatChange(prevAction, notifier.FormatSignalReport(s.Symbol, s.ExecRule, s.FilterRule, res)))
}

// Status returns a snapshot of the monitor state.
func (s *Scheduler) Status() notifier.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return notifier.Status{
		Symbol:      s.Symbol,
		Source:      s.Source,
		MonitorCron: s.monitorCron,
		LastRun:     s.lastRun,
		LastAction:  s.lastAction,
		LastError:   s.lastErr,
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// "/signal@MyBot" in group chats
	name, _, _ := strings.Cut(fields[0], "@")

	switch strings.ToLower(name) {
	case "/signal":
		symbol := s.Symbol
		if len(fields) > 1 {
			symbol = strings.ToUpper(fields[1])
		}
		res, err := s.Analyzer.Evaluate(ctx, symbol)
		if err != nil {
			log.Error().Err(err).Str("symbol", symbol).Msg("signal command failed")
			return notifier.FormatError(symbol, err)
		}
		return notifier.FormatSignalReport(symbol, s.ExecRule, s.FilterRule, res)
	case "/status":
		return notifier.FormatStatus(s.Status())
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Info().Msg("notifier disabled, report not sent")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
