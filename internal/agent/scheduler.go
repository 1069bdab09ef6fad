package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs registered agents on their cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	agents  []Agent
	timeout time.Duration
	log     zerolog.Logger
}

// NewScheduler builds a scheduler whose runs are cut off after timeout.
// Overlapping runs of the same agent are skipped.
func NewScheduler(timeout time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
		log:     log,
	}
}

func (s *Scheduler) RegisterAgent(a Agent) error {
	schedule := a.GetSchedule()
	if schedule == "" {
		s.agents = append(s.agents, a)
		s.log.Info().Str("agent", a.GetName()).Msg("registered on-demand agent")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.run(a) }); err != nil {
		return fmt.Errorf("failed to schedule agent %s: %w", a.GetName(), err)
	}
	s.agents = append(s.agents, a)
	s.log.Info().Str("agent", a.GetName()).Str("schedule", schedule).Msg("agent scheduled")
	return nil
}

func (s *Scheduler) run(a Agent) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := a.Execute(ctx); err != nil {
		s.log.Error().Err(err).Str("agent", a.GetName()).Dur("took", time.Since(start)).Msg("agent run failed")
		return
	}
	s.log.Info().Str("agent", a.GetName()).Dur("took", time.Since(start)).Msg("agent run completed")
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("agents", len(s.agents)).Msg("agent scheduler started")
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("agent scheduler stopped before running jobs finished")
		return
	}
	s.log.Info().Msg("agent scheduler stopped")
}

// RunAgentByName executes one agent immediately.
func (s *Scheduler) RunAgentByName(ctx context.Context, name string) error {
	for _, a := range s.agents {
		if a.GetName() == name {
			return a.Execute(ctx)
		}
	}
	return fmt.Errorf("agent %q is not registered", name)
}

func (s *Scheduler) GetRegisteredAgents() []string {
	names := make([]string, len(s.agents))
	for i, a := range s.agents {
		names[i] = a.GetName()
	}
	return names
}
