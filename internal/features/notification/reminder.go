package notification

import (
	"context"
	"time"

	"go-taskhub/internal/config"
	"go-taskhub/internal/realtime"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// staleAfter is how old an unread notification must be before the reminder
// job nudges its recipient.
const staleAfter = 24 * time.Hour

type reminderPayload struct {
	Count int64 `json:"count"`
}

// ReminderService periodically re-pushes a reminder event to users who still
// have old unread notifications. Purely a live-channel nudge; the records
// themselves are untouched.
type ReminderService struct {
	repo     NotificationRepository
	bus      realtime.Bus
	log      *zap.Logger
	schedule string

	scheduler *cron.Cron
}

func NewReminderService(cfg *config.Config, repo NotificationRepository, bus realtime.Bus, log *zap.Logger) *ReminderService {
	return &ReminderService{
		repo:     repo,
		bus:      bus,
		log:      log,
		schedule: cfg.ReminderSchedule,
	}
}

func (s *ReminderService) Start() error {
	if s.schedule == "" {
		s.log.Info("notification reminder disabled")
		return nil
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}
	s.scheduler.Start()
	s.log.Info("notification reminder scheduled", zap.String("spec", s.schedule))
	return nil
}

func (s *ReminderService) Stop() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}

func (s *ReminderService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counts, err := s.repo.StaleUnreadCounts(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		s.log.Warn("reminder scan failed", zap.Error(err))
		return
	}

	for _, rc := range counts {
		s.bus.Publish(
			realtime.PersonalRoom(rc.Recipient.Hex()),
			realtime.EventNotificationReminder,
			reminderPayload{Count: rc.Count},
		)
	}
}
