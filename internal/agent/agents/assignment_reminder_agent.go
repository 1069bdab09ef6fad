package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/agent/providers"
	"github.com/SahilxSingh/EduConnect/internal/entity"
	assignment "github.com/SahilxSingh/EduConnect/internal/modules/assignment/service"
	notifService "github.com/SahilxSingh/EduConnect/internal/modules/notification/service"
	"github.com/rs/zerolog"
)

type ReminderSource interface {
	PendingReminders(ctx context.Context, now time.Time, window time.Duration) ([]assignment.Reminder, error)
}

type AssignmentReminderConfig struct {
	Schedule string
	Window   time.Duration
	// KeyPrefix namespaces the per assignment/student dedupe keys.
	KeyPrefix string
}

func DefaultAssignmentReminderConfig() AssignmentReminderConfig {
	return AssignmentReminderConfig{
		Schedule:  "0 8 * * *",
		Window:    24 * time.Hour,
		KeyPrefix: "agent:assignment_reminder",
	}
}

// AssignmentReminderAgent notifies students about assignments due soon
// that they have not submitted yet. Each student is reminded once per
// assignment.
type AssignmentReminderAgent struct {
	source   ReminderSource
	notifier notifService.Notifier
	tracker  providers.Tracker
	config   AssignmentReminderConfig
	now      func() time.Time
	log      zerolog.Logger
}

func NewAssignmentReminderAgent(source ReminderSource, notifier notifService.Notifier, tracker providers.Tracker, config AssignmentReminderConfig, log zerolog.Logger) *AssignmentReminderAgent {
	return &AssignmentReminderAgent{
		source:   source,
		notifier: notifier,
		tracker:  tracker,
		config:   config,
		now:      time.Now,
		log:      log.With().Str("agent", "assignment-reminder").Logger(),
	}
}

func (a *AssignmentReminderAgent) GetName() string {
	return "assignment-reminder"
}

func (a *AssignmentReminderAgent) GetSchedule() string {
	return a.config.Schedule
}

func (a *AssignmentReminderAgent) Execute(ctx context.Context) error {
	now := a.now()
	reminders, err := a.source.PendingReminders(ctx, now, a.config.Window)
	if err != nil {
		return err
	}

	sent := 0
	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return err
		}

		first, err := a.claim(ctx, r)
		if err != nil {
			a.log.Warn().Err(err).Msg("reminder dedupe failed")
			continue
		}
		if !first {
			continue
		}

		teacherID := r.Assignment.TeacherID
		err = a.notifier.Notify(ctx, &entity.Notification{
			UserID:     r.StudentID,
			ActorID:    &teacherID,
			EntityID:   r.Assignment.ID,
			EntityType: "assignment",
			Type:       entity.NotificationAssignment,
			Message:    fmt.Sprintf("Assignment %q is due %s", r.Assignment.Title, r.Assignment.DueDate.Format("Jan 2, 15:04")),
		})
		if err != nil {
			a.log.Warn().Err(err).Str("assignment_id", r.Assignment.ID.String()).Msg("reminder not sent")
			continue
		}
		sent++
	}

	a.log.Info().Int("pending", len(reminders)).Int("sent", sent).Msg("reminders processed")
	return nil
}

func (a *AssignmentReminderAgent) claim(ctx context.Context, r assignment.Reminder) (bool, error) {
	if a.tracker == nil {
		return true, nil
	}
	key := fmt.Sprintf("%s:%s:%s", a.config.KeyPrefix, r.Assignment.ID, r.StudentID)
	// the key outlives the due date so a later run inside the window is a no-op
	ttl := time.Until(r.Assignment.DueDate) + 24*time.Hour
	if ttl < time.Hour {
		ttl = time.Hour
	}
	return a.tracker.Claim(ctx, key, ttl)
}
