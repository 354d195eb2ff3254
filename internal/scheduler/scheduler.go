package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"BuySignal/internal/advisor"
	"BuySignal/internal/notifier"
	"BuySignal/internal/recorder"
	"BuySignal/internal/store"
)

// ErrNoSelection is returned when no questionnaire has been submitted yet.
var ErrNoSelection = errors.New("no stored sentiment selection; submit the form first")

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler re-evaluates the stored questionnaire on a cron schedule and
// answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Advisor  *advisor.Advisor
	Store    *store.SelectionStore
	Notifier Sender
	Ctx      context.Context

	log zerolog.Logger
}

// NewScheduler creates a new Scheduler. sender may be nil to disable delivery.
func NewScheduler(ctx context.Context, adv *advisor.Advisor, st *store.SelectionStore, sender Sender, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Advisor:  adv,
		Store:    st,
		Notifier: sender,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Register registers the daily evaluation task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the daily task immediately.
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.log.Info().Msg("running daily evaluation")
	msg, err := s.evaluateStored(s.Ctx, recorder.TriggerScheduled)
	if err != nil {
		s.log.Error().Err(err).Msg("daily evaluation")
		s.trySend(notifier.FormatError(err))
		return
	}
	s.trySend(msg)
}

func (s *Scheduler) evaluateStored(ctx context.Context, trigger recorder.Trigger) (string, error) {
	sel, _, ok := s.Store.Get()
	if !ok {
		return "", ErrNoSelection
	}
	r, err := s.Advisor.Evaluate(ctx, sel, trigger)
	if err != nil {
		return "", err
	}
	return notifier.FormatReport(r), nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/signal":
		msg, err := s.evaluateStored(ctx, recorder.TriggerCommand)
		if err != nil {
			return notifier.FormatError(err)
		}
		return msg
	case "/sentiment":
		sel, updated, ok := s.Store.Get()
		if !ok {
			return notifier.FormatError(ErrNoSelection)
		}
		return notifier.FormatSelection(sel, updated)
	default:
		return "Available commands:\n• /signal - evaluate the stored sentiment now\n• /sentiment - show the stored sentiment"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		s.log.Debug().Msg("no notifier configured, skipping delivery")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
