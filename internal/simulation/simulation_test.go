package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/markusressel/therm2go/internal/buffer"
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createControllerConfig() configuration.ControllerConfig {
	return configuration.ControllerConfig{
		ID:              "thermostat",
		Pid:             configuration.PidConfig{P: 10, I: 1},
		OutputLimits:    &configuration.LimitsConfig{Min: 0, Max: 100},
		Interval:        time.Second,
		ErrorWindowSize: 10,
		FailSafe:        configuration.FailSafeConfig{Mode: configuration.FailSafeModeHold},
		Input:           buffer.DefaultInputLayout(),
		Output:          buffer.DefaultOutputLayout(),
	}
}

func TestPlant_StepHeats(t *testing.T) {
	// GIVEN
	plant := NewPlant(DefaultPlantConfig())

	// WHEN
	plant.Step(10, time.Second)

	// THEN
	assert.InDelta(t, 20.5, plant.Temperature, 1e-9)
}

func TestPlant_StepCoolsTowardsAmbient(t *testing.T) {
	// GIVEN
	config := DefaultPlantConfig()
	config.Initial = 30
	plant := NewPlant(config)

	// WHEN
	plant.Step(0, 2*time.Second)

	// THEN
	assert.InDelta(t, 29.8, plant.Temperature, 1e-9)
}

func TestSchedule_Target(t *testing.T) {
	// GIVEN
	schedule := Schedule{
		{At: 0, Target: 21},
		{At: time.Minute, Target: 23},
	}

	// THEN
	assert.Equal(t, 21.0, schedule.Target(0))
	assert.Equal(t, 21.0, schedule.Target(59*time.Second))
	assert.Equal(t, 23.0, schedule.Target(time.Minute))
	assert.Equal(t, 23.0, schedule.Target(time.Hour))
}

func TestParseSchedule(t *testing.T) {
	// WHEN
	schedule, err := ParseSchedule([]string{"5m=23.5", "0s = 21"})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, Schedule{
		{At: 0, Target: 21},
		{At: 5 * time.Minute, Target: 23.5},
	}, schedule)
}

func TestParseScheduleInvalid(t *testing.T) {
	for _, entry := range []string{"21", "x=21", "5m=warm"} {
		// WHEN
		_, err := ParseSchedule([]string{entry})

		// THEN
		assert.Error(t, err, entry)
	}
}

func TestNew_EmptySchedule(t *testing.T) {
	// WHEN
	_, err := New(createControllerConfig(), DefaultPlantConfig(), nil)

	// THEN
	assert.Error(t, err)
}

func TestSimulation_ReachesSetpoint(t *testing.T) {
	// GIVEN
	simulation, err := New(createControllerConfig(), DefaultPlantConfig(), Schedule{{At: 0, Target: 25}})
	require.NoError(t, err)

	// WHEN
	points, err := simulation.Run(600)

	// THEN
	require.NoError(t, err)
	require.Len(t, points, 600)
	assert.Equal(t, 20.0, points[0].Temperature)
	assert.InDelta(t, 55.0, points[0].Command, 1e-3)

	summary := Summarize(points)
	assert.Equal(t, 600, summary.Cycles)
	assert.Equal(t, 0, summary.Failures)
	assert.InDelta(t, 25.0, summary.FinalTemperature, 0.05)
	assert.Equal(t, uint64(600), simulation.Status().Cycles)
}

func TestSimulation_HoldOnInvalidMeasurement(t *testing.T) {
	// GIVEN
	plant := DefaultPlantConfig()
	plant.Initial = math.NaN()
	simulation, err := New(createControllerConfig(), plant, Schedule{{At: 0, Target: 25}})
	require.NoError(t, err)

	// WHEN
	points, err := simulation.Run(3)

	// THEN
	require.NoError(t, err)
	require.Len(t, points, 3)
	for _, point := range points {
		assert.True(t, point.Failed)
		assert.Equal(t, 0.0, point.Command)
	}
	assert.Equal(t, 3, Summarize(points).Failures)
	assert.Equal(t, 0, simulation.actuator.Writes())
}

func TestSimulation_EscalateStops(t *testing.T) {
	// GIVEN
	config := createControllerConfig()
	config.FailSafe.Mode = configuration.FailSafeModeEscalate
	plant := DefaultPlantConfig()
	plant.Initial = math.Inf(1)
	simulation, err := New(config, plant, Schedule{{At: 0, Target: 25}})
	require.NoError(t, err)

	// WHEN
	points, err := simulation.Run(3)

	// THEN
	assert.ErrorIs(t, err, pid.ErrInvalidSample)
	assert.Empty(t, points)
}

func TestSummarize(t *testing.T) {
	// GIVEN
	points := []Point{
		{Temperature: 20, Target: 22},
		{Temperature: 23, Target: 22, Saturated: true},
		{Temperature: 22, Target: 22, Failed: true},
	}

	// WHEN
	summary := Summarize(points)

	// THEN
	assert.Equal(t, 3, summary.Cycles)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, 1, summary.Saturations)
	assert.Equal(t, 22.0, summary.FinalTemperature)
	assert.InDelta(t, 1.0, summary.MeanAbsError, 1e-9)
	assert.InDelta(t, 1.0, summary.MaxOvershoot, 1e-9)
}

func TestSimulation_MeasuredIntervalUsesVirtualTime(t *testing.T) {
	// GIVEN
	fixed := createControllerConfig()
	fixed.Pid = configuration.PidConfig{I: 1}
	measured := fixed
	measured.MeasureInterval = true

	fixedSimulation, err := New(fixed, DefaultPlantConfig(), Schedule{{At: 0, Target: 25}})
	require.NoError(t, err)
	measuredSimulation, err := New(measured, DefaultPlantConfig(), Schedule{{At: 0, Target: 25}})
	require.NoError(t, err)

	// WHEN
	fixedPoints, err := fixedSimulation.Run(5)
	require.NoError(t, err)
	measuredPoints, err := measuredSimulation.Run(5)
	require.NoError(t, err)

	// THEN
	assert.Equal(t, time.Second, measuredSimulation.Status().LastDt)
	assert.Equal(t, fixedPoints, measuredPoints)
}
