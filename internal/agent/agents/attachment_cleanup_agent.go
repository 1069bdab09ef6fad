package agents

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type OrphanCleaner interface {
	CleanupOrphans(ctx context.Context, olderThan time.Duration) (int, error)
}

// AttachmentCleanupAgent deletes uploads that never made it into a post.
type AttachmentCleanupAgent struct {
	cleaner   OrphanCleaner
	schedule  string
	olderThan time.Duration
	log       zerolog.Logger
}

func NewAttachmentCleanupAgent(cleaner OrphanCleaner, schedule string, olderThan time.Duration, log zerolog.Logger) *AttachmentCleanupAgent {
	return &AttachmentCleanupAgent{
		cleaner:   cleaner,
		schedule:  schedule,
		olderThan: olderThan,
		log:       log.With().Str("agent", "attachment-cleanup").Logger(),
	}
}

func (a *AttachmentCleanupAgent) GetName() string {
	return "attachment-cleanup"
}

func (a *AttachmentCleanupAgent) GetSchedule() string {
	return a.schedule
}

func (a *AttachmentCleanupAgent) Execute(ctx context.Context) error {
	removed, err := a.cleaner.CleanupOrphans(ctx, a.olderThan)
	if err != nil {
		return err
	}
	a.log.Info().Int("removed", removed).Msg("orphan attachments cleaned")
	return nil
}
