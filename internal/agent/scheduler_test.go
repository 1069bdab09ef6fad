package agent

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubAgent struct {
	name     string
	schedule string
	runs     int
}

func (s *stubAgent) GetName() string     { return s.name }
func (s *stubAgent) GetSchedule() string { return s.schedule }

func (s *stubAgent) Execute(context.Context) error {
	s.runs++
	return nil
}

func TestSchedulerRegistersAgents(t *testing.T) {
	s := NewScheduler(time.Minute, zerolog.Nop())

	if err := s.RegisterAgent(&stubAgent{name: "daily", schedule: "0 8 * * *"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterAgent(&stubAgent{name: "manual"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterAgent(&stubAgent{name: "broken", schedule: "every tuesday"}); err == nil {
		t.Error("invalid schedule should fail")
	}

	names := s.GetRegisteredAgents()
	if len(names) != 2 || names[0] != "daily" || names[1] != "manual" {
		t.Errorf("agents = %v", names)
	}
}

func TestRunAgentByName(t *testing.T) {
	s := NewScheduler(0, zerolog.Nop())
	manual := &stubAgent{name: "manual"}
	if err := s.RegisterAgent(manual); err != nil {
		t.Fatal(err)
	}

	if err := s.RunAgentByName(context.Background(), "manual"); err != nil {
		t.Fatal(err)
	}
	if manual.runs != 1 {
		t.Errorf("runs = %d, want 1", manual.runs)
	}
	if err := s.RunAgentByName(context.Background(), "missing"); err == nil {
		t.Error("unknown agent should fail")
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
