package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriageColorFor(t *testing.T) {
	expected := map[int]TriageColor{
		1: TriageColorRed,
		2: TriageColorOrange,
		3: TriageColorYellow,
		4: TriageColorGreen,
		5: TriageColorBlue,
	}
	for category, color := range expected {
		got, ok := TriageColorFor(category)
		assert.True(t, ok)
		assert.Equal(t, color, got)
	}

	for _, invalid := range []int{0, 6, -1, 100} {
		_, ok := TriageColorFor(invalid)
		assert.False(t, ok, "category %d should be invalid", invalid)
	}
}

func TestSetCategoryUpdatesColorAtomically(t *testing.T) {
	var record TriageRecord

	assert.True(t, record.SetCategory(1))
	assert.Equal(t, 1, record.TriageCategory)
	assert.Equal(t, TriageColorRed, record.TriageColor)

	assert.True(t, record.SetCategory(4))
	assert.Equal(t, 4, record.TriageCategory)
	assert.Equal(t, TriageColorGreen, record.TriageColor)

	// an invalid category leaves both fields untouched
	assert.False(t, record.SetCategory(9))
	assert.Equal(t, 4, record.TriageCategory)
	assert.Equal(t, TriageColorGreen, record.TriageColor)
}
