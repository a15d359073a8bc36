package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGetWindowAbsMax(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(-7)
	window.Append(3)

	// WHEN
	result := GetWindowAbsMax(window)

	// THEN
	assert.Equal(t, 7.0, result)
}
