package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
)

// BoardInvalidator drops cached board aggregates after a workflow write.
type BoardInvalidator interface {
	Invalidate()
}

// Service records board events in the outbox. The worker publishes them; the
// workflow services only ever write.
type Service struct {
	outboxRepo  repository.OutboxRepository
	logger      *logger.Logger
	invalidator BoardInvalidator
}

func NewService(outboxRepo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// SetBoardInvalidator registers the cache to drop on every emission. Every
// event type corresponds to a board-visible change, so emission is the one
// choke point all workflow writes share.
func (s *Service) SetBoardInvalidator(inv BoardInvalidator) {
	s.invalidator = inv
}

// Emit records an event for asynchronous publication. Emission failures are
// logged but never fail the calling workflow operation: the board can always
// re-poll.
func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "failed to record board event", "event_type", eventType)
		return
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}
