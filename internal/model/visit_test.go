package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestERStatusTransitions(t *testing.T) {
	assert.True(t, ERStatusWaiting.CanTransition(ERStatusInTreatment))
	assert.True(t, ERStatusInTreatment.CanTransition(ERStatusAdmitted))
	assert.True(t, ERStatusInTreatment.CanTransition(ERStatusDischarged))
	assert.True(t, ERStatusInTreatment.CanTransition(ERStatusDeceased))

	// no skipping waiting -> terminal
	assert.False(t, ERStatusWaiting.CanTransition(ERStatusDischarged))
	assert.False(t, ERStatusWaiting.CanTransition(ERStatusAdmitted))

	// no backward moves
	assert.False(t, ERStatusInTreatment.CanTransition(ERStatusWaiting))
}

func TestERStatusTerminalHasNoExits(t *testing.T) {
	terminals := []ERStatus{
		ERStatusAdmitted, ERStatusDischarged, ERStatusTransferred,
		ERStatusLeftAMA, ERStatusDeceased,
	}
	all := []ERStatus{
		ERStatusWaiting, ERStatusInTreatment,
		ERStatusAdmitted, ERStatusDischarged, ERStatusTransferred,
		ERStatusLeftAMA, ERStatusDeceased,
	}

	for _, terminal := range terminals {
		assert.True(t, terminal.IsTerminal(), "%s should be terminal", terminal)
		for _, next := range all {
			assert.False(t, terminal.CanTransition(next), "%s -> %s should be rejected", terminal, next)
		}
	}

	assert.False(t, ERStatusWaiting.IsTerminal())
	assert.False(t, ERStatusInTreatment.IsTerminal())
}

func TestWaitingMinutes(t *testing.T) {
	now := time.Now()
	v := &ERVisit{ArrivalTime: now.Add(-45 * time.Minute)}
	assert.Equal(t, 45, v.WaitingMinutes(now))

	// clock skew never yields a negative wait
	v.ArrivalTime = now.Add(5 * time.Minute)
	assert.Equal(t, 0, v.WaitingMinutes(now))
}
