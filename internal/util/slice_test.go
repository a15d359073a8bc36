package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMax(t *testing.T) {
	// GIVEN
	values := []float64{3, -1.5, 7, 0}

	// THEN
	assert.Equal(t, 7.0, Max(values))
}

func TestMaxEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Max(nil))
}

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[string]int{
		"output": 1,
		"input":  2,
		"aux":    3,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []string{"aux", "input", "output"}, result)
}
