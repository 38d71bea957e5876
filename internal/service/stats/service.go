package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
)

const boardStatsKey = "board_stats"

// Service serves the dashboard summary. Counts are cached with a short TTL
// and a single-flight guard so a burst of board refreshes produces one
// aggregate query, not one per client.
type Service struct {
	visitRepo repository.VisitRepository
	cache     *gocache.Cache
	ttl       time.Duration

	mu sync.Mutex
}

func NewService(visitRepo repository.VisitRepository, ttl time.Duration) *Service {
	return &Service{
		visitRepo: visitRepo,
		cache:     gocache.New(ttl, 2*ttl),
		ttl:       ttl,
	}
}

// BoardStats returns the current department counts, cached up to the TTL.
func (s *Service) BoardStats(ctx context.Context) (*model.BoardStats, error) {
	if cached, ok := s.cache.Get(boardStatsKey); ok {
		return cached.(*model.BoardStats), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another caller may have refreshed while we waited on the lock
	if cached, ok := s.cache.Get(boardStatsKey); ok {
		return cached.(*model.BoardStats), nil
	}

	since := time.Now().Add(-24 * time.Hour)
	boardStats, err := s.visitRepo.CountsByStatusAndLevel(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute board stats: %w", err)
	}

	s.cache.Set(boardStatsKey, boardStats, s.ttl)
	return boardStats, nil
}

// Invalidate drops the cached counts so the next read recomputes. Called
// after workflow writes that change the board.
func (s *Service) Invalidate() {
	s.cache.Delete(boardStatsKey)
}
