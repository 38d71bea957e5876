package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository/memory"
)

// countingVisitStore wraps the memory store and counts aggregate queries.
type countingVisitStore struct {
	*memory.VisitStore

	mu    sync.Mutex
	calls int
}

func (s *countingVisitStore) CountsByStatusAndLevel(ctx context.Context, since time.Time) (*model.BoardStats, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.VisitStore.CountsByStatusAndLevel(ctx, since)
}

func (s *countingVisitStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func seedVisit(t *testing.T, store *memory.VisitStore, status model.ERStatus, level int) {
	t.Helper()
	triageID := uuid.New()
	visit := &model.ERVisit{
		Base:        model.Base{ID: uuid.New()},
		ERNumber:    "ER-2026-00001",
		PatientID:   uuid.New(),
		TriageLevel: level,
		ArrivalTime: time.Now().Add(-30 * time.Minute),
		ERStatus:    status,
		TriageID:    &triageID,
	}
	require.NoError(t, store.Create(context.Background(), visit))
}

func TestBoardStatsAggregates(t *testing.T) {
	store := &countingVisitStore{VisitStore: memory.NewVisitStore()}
	svc := NewService(store, time.Minute)

	seedVisit(t, store.VisitStore, model.ERStatusWaiting, 1)
	seedVisit(t, store.VisitStore, model.ERStatusWaiting, 3)
	seedVisit(t, store.VisitStore, model.ERStatusInTreatment, 2)
	seedVisit(t, store.VisitStore, model.ERStatusDischarged, 4)

	got, err := svc.BoardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 2, got.ByStatus[string(model.ERStatusWaiting)])
	assert.Equal(t, 1, got.ByStatus[string(model.ERStatusInTreatment)])
	assert.Equal(t, 1, got.ByTriageLevel[1])
	assert.Greater(t, got.AvgWaitMinutes, 0.0)
}

func TestBoardStatsCaching(t *testing.T) {
	store := &countingVisitStore{VisitStore: memory.NewVisitStore()}
	svc := NewService(store, time.Minute)
	seedVisit(t, store.VisitStore, model.ERStatusWaiting, 2)

	first, err := svc.BoardStats(context.Background())
	require.NoError(t, err)

	// a new visit arrives but the cached counts are served until the TTL
	seedVisit(t, store.VisitStore, model.ERStatusWaiting, 1)

	second, err := svc.BoardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, store.callCount())

	svc.Invalidate()

	third, err := svc.BoardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, third.Total)
	assert.Equal(t, 2, store.callCount())
}
