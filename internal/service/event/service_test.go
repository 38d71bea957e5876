package event

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stranger261/hospital-er-api/internal/model"
	"github.com/Stranger261/hospital-er-api/internal/repository/memory"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

func TestEmitRecordsEventAndInvalidatesBoard(t *testing.T) {
	outbox := memory.NewOutboxStore()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(outbox, log)
	inv := &countingInvalidator{}
	svc.SetBoardInvalidator(inv)

	svc.Emit(context.Background(), model.EventVisitRegistered, map[string]interface{}{"visit_id": "v1"})

	require.Equal(t, []string{model.EventVisitRegistered}, outbox.EventTypes())
	assert.Equal(t, 1, inv.calls)
}

func TestEmitFailureSkipsInvalidation(t *testing.T) {
	outbox := memory.NewOutboxStore()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(outbox, log)
	inv := &countingInvalidator{}
	svc.SetBoardInvalidator(inv)

	// Channels cannot be marshalled, so the emission fails before the
	// outbox write.
	svc.Emit(context.Background(), model.EventVisitRegistered, map[string]interface{}{"bad": make(chan int)})

	assert.Empty(t, outbox.EventTypes())
	assert.Equal(t, 0, inv.calls)
}

func TestEmitWithoutInvalidatorIsSafe(t *testing.T) {
	outbox := memory.NewOutboxStore()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(outbox, log)

	svc.Emit(context.Background(), model.EventDoctorAssigned, map[string]interface{}{"visit_id": "v1"})

	require.Equal(t, []string{model.EventDoctorAssigned}, outbox.EventTypes())
}
