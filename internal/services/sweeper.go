package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/jobfit-analyzer/internal/repositories"
)

type Sweeper interface {
	Start(ctx context.Context)
	Stop()
	// Sweep runs one eviction pass and returns how many sessions were removed.
	Sweep() int
}

type sweeper struct {
	repo      repositories.SessionRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	onEvict   func(id uuid.UUID)

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewSweeper evicts sessions whose StartedAt is older than retention.
// onEvict may be nil.
func NewSweeper(
	repo repositories.SessionRepository,
	retention, interval time.Duration,
	now func() time.Time,
	onEvict func(id uuid.UUID),
) Sweeper {
	if now == nil {
		now = time.Now
	}
	return &sweeper{
		repo:      repo,
		retention: retention,
		interval:  interval,
		now:       now,
		onEvict:   onEvict,
		stopChan:  make(chan struct{}),
	}
}

func (s *sweeper) Start(ctx context.Context) {
	if s.interval <= 0 || s.retention <= 0 {
		log.Warn().Msg("⚠️  Session sweeper disabled")
		return
	}

	s.wg.Add(1)
	go s.loop(ctx)
	log.Info().
		Dur("interval", s.interval).
		Dur("retention", s.retention).
		Msg("🔄 Session sweeper started")
}

func (s *sweeper) Stop() {
	s.stopOnce.Do(func() {
		log.Info().Msg("🛑 Stopping session sweeper...")
		close(s.stopChan)
		s.wg.Wait()
		log.Info().Msg("✅ Session sweeper stopped")
	})
}

func (s *sweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *sweeper) Sweep() int {
	cutoff := s.now().Add(-s.retention)
	ids, err := s.repo.FindStartedBefore(cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  Failed to fetch stale sessions")
		return 0
	}

	evicted := 0
	for _, id := range ids {
		if err := s.repo.Delete(id); err != nil {
			log.Warn().Err(err).Str("session_id", id.String()).Msg("⚠️  Failed to evict session")
			continue
		}
		if s.onEvict != nil {
			s.onEvict(id)
		}
		evicted++
	}

	if evicted > 0 {
		log.Info().Int("count", evicted).Msg("🧹 Evicted stale sessions")
	}
	return evicted
}
