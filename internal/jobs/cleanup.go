package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/repository"
)

// CleanupJob periodically purges expired admin sessions and spent or
// expired password reset tokens.
type CleanupJob struct {
	sessionRepo repository.AdminSessionRepository
	resetRepo   repository.PasswordResetRepository
	interval    time.Duration
	done        chan struct{}
}

func NewCleanupJob(
	sessionRepo repository.AdminSessionRepository,
	resetRepo repository.PasswordResetRepository,
	interval time.Duration,
) *CleanupJob {
	return &CleanupJob{
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	j.runCleanup(ctx, "admin sessions", j.sessionRepo.DeleteExpired)
	j.runCleanup(ctx, "password reset tokens", j.resetRepo.DeleteExpired)
}

func (j *CleanupJob) runCleanup(ctx context.Context, name string, fn func(context.Context) (int64, error)) {
	count, err := fn(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("failed to cleanup %s", name)
	} else if count > 0 {
		log.Info().Int64("count", count).Msgf("cleaned up %s", name)
	}
}
