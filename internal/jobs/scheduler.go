package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"stagelink/api/internal/models"
	"stagelink/api/internal/notify"
	"stagelink/api/internal/service"
)

const hubEntryMaxAge = 24 * time.Hour

// Scheduler runs the background maintenance jobs: a daily digest of pending
// stage-manager registrations for super admins and an hourly sweep of stale
// connection-registry entries.
type Scheduler struct {
	cron     *cron.Cron
	auth     *service.AuthService
	notifier service.Notifier
	hub      *notify.Hub
	log      zerolog.Logger
}

func NewScheduler(auth *service.AuthService, notifier service.Notifier, hub *notify.Hub, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		auth:     auth,
		notifier: notifier,
		hub:      hub,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 8 * * *", s.pendingDigest); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.sweepHub); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, up to a grace period.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) pendingDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pending, err := s.auth.PendingStageManagers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("pending digest failed")
		return
	}
	if len(pending) == 0 {
		return
	}

	s.notifier.Publish(ctx, notify.RoleRoom(models.RoleSuperAdmin), "registration.digest", map[string]int{
		"count": len(pending),
	})
	s.log.Info().Int("count", len(pending)).Msg("pending registration digest sent")
}

func (s *Scheduler) sweepHub() {
	if removed := s.hub.Sweep(hubEntryMaxAge); removed > 0 {
		s.log.Info().Int("removed", removed).Msg("stale hub entries swept")
	}
}
