package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/killallgit/dubber-api/internal/services/audiocache"
	"github.com/killallgit/dubber-api/internal/services/sessions"
	"github.com/robfig/cron/v3"
)

// Service runs scheduled housekeeping: reaping idle sessions and purging
// expired rows from the persisted result cache.
type Service struct {
	store    *sessions.Store
	cache    audiocache.Service
	idleTTL  time.Duration
	schedule string
	cron     *cron.Cron
}

// NewService creates a maintenance service. Schedule uses cron syntax,
// including the "@every 10m" shorthand.
func NewService(store *sessions.Store, cache audiocache.Service, idleTTL time.Duration, schedule string) *Service {
	if schedule == "" {
		schedule = "@every 10m"
	}
	return &Service{
		store:    store,
		cache:    cache,
		idleTTL:  idleTTL,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the housekeeping job and starts the cron runner
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[INFO] Maintenance started (schedule: %s, idle TTL: %v)", s.schedule, s.idleTTL)
	return nil
}

// Stop halts the cron runner and waits for a running sweep to finish
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("[INFO] Maintenance stopped")
}

// sweep is one housekeeping pass
func (s *Service) sweep() {
	s.store.Reap(s.idleTTL)

	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.cache.PurgeExpired(ctx)
	if err != nil {
		log.Printf("[ERROR] Cache purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d expired cache entries", purged)
	}
}
