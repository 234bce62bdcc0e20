package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

// Scheduler drives the periodic jobs: the daily reminder scan for sessions
// starting the next day, the hourly sweep of lapsed subscriptions, and the
// refresh token purge.
type Scheduler struct {
	sessionService      service.SessionService
	subscriptionService service.SubscriptionService
	authService         service.AuthService

	reminderInterval time.Duration
	sweepInterval    time.Duration
	purgeInterval    time.Duration
}

func New(sessionService service.SessionService, subscriptionService service.SubscriptionService, authService service.AuthService) *Scheduler {
	return &Scheduler{
		sessionService:      sessionService,
		subscriptionService: subscriptionService,
		authService:         authService,
		reminderInterval:    24 * time.Hour,
		sweepInterval:       time.Hour,
		purgeInterval:       12 * time.Hour,
	}
}

// Start launches the job loops. Each runs once immediately so a restart does
// not push the next sweep a full interval out. They stop when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx, s.reminderInterval, s.runReminders)
	go s.loop(ctx, s.sweepInterval, s.runSweep)
	go s.loop(ctx, s.purgeInterval, s.runTokenPurge)
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, job func(context.Context)) {
	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}

func (s *Scheduler) runReminders(ctx context.Context) {
	from := time.Now().Add(24 * time.Hour)
	to := from.Add(s.reminderInterval)

	sent, err := s.sessionService.RemindUpcoming(ctx, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "Reminder scan failed", slog.String("error", err.Error()))
		return
	}

	slog.InfoContext(ctx, "Reminder scan finished", slog.Int("reminders_sent", sent))
}

func (s *Scheduler) runSweep(ctx context.Context) {
	swept, err := s.subscriptionService.SweepExpired(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Subscription sweep failed", slog.String("error", err.Error()))
		return
	}

	if swept > 0 {
		slog.InfoContext(ctx, "Subscription sweep finished", slog.Int64("deactivated", swept))
	}
}

func (s *Scheduler) runTokenPurge(ctx context.Context) {
	purged, err := s.authService.PurgeExpiredTokens(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Token purge failed", slog.String("error", err.Error()))
		return
	}

	if purged > 0 {
		slog.InfoContext(ctx, "Token purge finished", slog.Int64("purged", purged))
	}
}
