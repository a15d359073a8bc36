package internal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/markusressel/therm2go/internal/actuators"
	"github.com/markusressel/therm2go/internal/buffer"
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/persistence"
	"github.com/markusressel/therm2go/internal/sensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMemoryConfig() configuration.Configuration {
	return configuration.Configuration{
		Sensors: []configuration.SensorConfig{
			{ID: "input", Memory: &configuration.MemorySensorConfig{Size: 8}},
		},
		Actuators: []configuration.ActuatorConfig{
			{ID: "output", Memory: &configuration.MemoryActuatorConfig{Size: 4}},
		},
		Controller: configuration.ControllerConfig{
			ID:              "thermostat",
			Sensor:          "input",
			Actuator:        "output",
			Pid:             configuration.PidConfig{P: 2},
			Interval:        100 * time.Millisecond,
			ErrorWindowSize: 5,
			FailSafe:        configuration.FailSafeConfig{Mode: configuration.FailSafeModeHold},
			Input:           buffer.DefaultInputLayout(),
			Output:          buffer.DefaultOutputLayout(),
		},
	}
}

func TestInitializeObjects(t *testing.T) {
	// GIVEN
	configuration.CurrentConfig = createMemoryConfig()
	defer closeTransports()

	// WHEN
	driver, err := InitializeObjects()
	require.NoError(t, err)

	sensor, ok := sensors.SensorMap.Get("input")
	require.True(t, ok)
	region := make([]byte, 8)
	require.NoError(t, buffer.DefaultInputLayout().Encode(region, 20, 21.5))
	require.NoError(t, sensor.(*sensors.MemorySensor).Update(region))

	err = driver.Cycle()

	// THEN
	require.NoError(t, err)
	actuator, ok := actuators.ActuatorMap.Get("output")
	require.True(t, ok)
	command, err := buffer.DefaultOutputLayout().Decode(actuator.(*actuators.MemoryActuator).Snapshot())
	require.NoError(t, err)
	assert.InDelta(t, 3.0, command, 1e-6)
}

func TestInitializeObjectsUnknownSensor(t *testing.T) {
	// GIVEN
	config := createMemoryConfig()
	config.Controller.Sensor = "missing"
	configuration.CurrentConfig = config
	defer closeTransports()

	// WHEN
	_, err := InitializeObjects()

	// THEN
	assert.ErrorContains(t, err, "sensor missing not found")
}

func TestCloseTransports(t *testing.T) {
	// GIVEN
	configuration.CurrentConfig = createMemoryConfig()
	_, err := InitializeObjects()
	require.NoError(t, err)

	// WHEN
	closeTransports()

	// THEN
	assert.Equal(t, 0, sensors.SensorMap.Count())
	assert.Equal(t, 0, actuators.ActuatorMap.Count())
}

func TestRunPersistenceSavesOnShutdown(t *testing.T) {
	// GIVEN
	configuration.CurrentConfig = createMemoryConfig()
	defer closeTransports()
	driver, err := InitializeObjects()
	require.NoError(t, err)
	require.NoError(t, driver.Cycle())

	pers := persistence.NewPersistence(filepath.Join(t.TempDir(), "therm2go.db"))
	require.NoError(t, pers.Init())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err = runPersistence(ctx, pers, driver, time.Hour)

	// THEN
	require.NoError(t, err)
	record, err := pers.LoadControllerRecord("thermostat")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), record.Status.Cycles)
	assert.True(t, record.Status.HasCommand)
}
