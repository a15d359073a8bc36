package configuration

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/markusressel/therm2go/internal/buffer"
	"github.com/stretchr/testify/assert"
)

func createValidConfig() Configuration {
	return Configuration{
		Sensors: []SensorConfig{
			{
				ID:   "input",
				File: &FileSensorConfig{Path: "/dev/shm/therm2go/input"},
			},
		},
		Actuators: []ActuatorConfig{
			{
				ID:   "output",
				File: &FileActuatorConfig{Path: "/dev/shm/therm2go/output"},
			},
		},
		Controller: ControllerConfig{
			ID:              "thermostat",
			Sensor:          "input",
			Actuator:        "output",
			Pid:             PidConfig{P: 2, I: 0.5, D: 0.1},
			OutputLimits:    &LimitsConfig{Min: 0, Max: 100},
			Interval:        100 * time.Millisecond,
			ErrorWindowSize: 10,
			FailSafe:        FailSafeConfig{Mode: FailSafeModeHold},
			Input:           buffer.DefaultInputLayout(),
			Output:          buffer.DefaultOutputLayout(),
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	// GIVEN
	config := createValidConfig()

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateDuplicateSensorId(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors = append(config.Sensors, SensorConfig{
		ID:     "input",
		Memory: &MemorySensorConfig{Size: 8},
	})

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, fmt.Sprintf("duplicate sensor id detected: %s", "input"))
}

func TestValidateSensorSubConfigIsMissing(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors[0].File = nil

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "sensor input: sub-configuration for sensor is missing, use one of: memory | file | udp")
}

func TestValidateSensorMultipleSubConfigs(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors[0].Udp = &UdpSensorConfig{Bind: ":7000"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "sensor input: only one sub-configuration is allowed")
}

func TestValidateActuatorUdpWithoutConnect(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Actuators[0].File = nil
	config.Actuators[0].Udp = &UdpActuatorConfig{Bind: ":7001"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "actuator output: udp connect address must not be empty")
}

func TestValidateControllerSensorIsNotDefined(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.Sensor = "missing"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: no sensor with id found: missing")
}

func TestValidateControllerActuatorIsNotDefined(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.Actuator = "missing"

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: no actuator with id found: missing")
}

func TestValidateControllerLimitsMinGreaterThanMax(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.OutputLimits = &LimitsConfig{Min: 10, Max: 0}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: output limit min (10) must not be greater than max (0)")
}

func TestValidateControllerWithoutLimits(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.OutputLimits = nil

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateControllerNonFiniteGain(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.Pid.D = math.Inf(1)

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: pid gains must be finite numbers")
}

func TestValidateControllerNonPositiveInterval(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.Interval = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: interval must be positive")
}

func TestValidateControllerFailSafeValueOutsideLimits(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.FailSafe = FailSafeConfig{Mode: FailSafeModeDefault, Value: 150}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: fail-safe value 150 is outside of the output limits")
}

func TestValidateControllerUnknownFailSafeMode(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.FailSafe = FailSafeConfig{Mode: "panic"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: unknown fail-safe mode: panic")
}

func TestValidateControllerInputLayoutOverlap(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Controller.Input.TargetOffset = 2

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: input: measuredOffset 0 and targetOffset 2 overlap")
}

func TestValidateControllerMemorySensorTooSmall(t *testing.T) {
	// GIVEN
	config := createValidConfig()
	config.Sensors[0].File = nil
	config.Sensors[0].Memory = &MemorySensorConfig{Size: 4}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "controller thermostat: sensor input is smaller than the input region (4 < 8)")
}
