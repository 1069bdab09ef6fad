package agent

import "context"

// Agent is a background job run by the Scheduler.
type Agent interface {
	// GetName identifies the agent in logs and on-demand runs.
	GetName() string

	// GetSchedule returns a cron expression ("0 8 * * *"). An empty string
	// registers the agent for on-demand runs only.
	GetSchedule() string

	Execute(ctx context.Context) error
}
