package control_loop

import (
	"testing"
	"time"

	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriverFromConfig(t *testing.T) {
	// GIVEN
	config := configuration.ControllerConfig{
		ID:              "thermostat",
		Pid:             configuration.PidConfig{P: 1},
		OutputLimits:    &configuration.LimitsConfig{Min: 0, Max: 10},
		Interval:        time.Second,
		ErrorWindowSize: 5,
		FailSafe: configuration.FailSafeConfig{
			Mode:  configuration.FailSafeModeDefault,
			Value: 3,
		},
	}
	reader := &mockReader{samples: []pid.Sample{{Measured: 0, Target: 50}}}
	writer := &mockWriter{}

	// WHEN
	driver, err := NewDriverFromConfig(config, reader, writer)
	require.NoError(t, err)
	err = driver.Cycle()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "thermostat", driver.GetId())
	assert.Equal(t, FailSafeDefault, driver.config.FailSafe.Mode)
	assert.Equal(t, []float64{10}, writer.written)
	assert.True(t, driver.Status().LastCommand.Saturated)
}

func TestNewDriverFromConfigInvalidLimits(t *testing.T) {
	// GIVEN
	config := configuration.ControllerConfig{
		ID:           "thermostat",
		OutputLimits: &configuration.LimitsConfig{Min: 10, Max: 0},
		Interval:     time.Second,
	}

	// WHEN
	_, err := NewDriverFromConfig(config, &mockReader{}, &mockWriter{})

	// THEN
	assert.ErrorIs(t, err, pid.ErrInvalidLimits)
}
