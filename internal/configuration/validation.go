package configuration

import (
	"errors"
	"fmt"

	"github.com/markusressel/therm2go/internal/util"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := validateSensors(config)
	if err != nil {
		return err
	}
	err = validateActuators(config)
	if err != nil {
		return err
	}
	return validateController(config)
}

func validateSensors(config *Configuration) error {
	var sensorIds []string
	for _, sensorConfig := range config.Sensors {
		if len(sensorConfig.ID) <= 0 {
			return errors.New("sensor id must not be empty")
		}
		if slices.Contains(sensorIds, sensorConfig.ID) {
			return fmt.Errorf("duplicate sensor id detected: %s", sensorConfig.ID)
		}
		sensorIds = append(sensorIds, sensorConfig.ID)

		subConfigs := 0
		if sensorConfig.Memory != nil {
			subConfigs++
			if sensorConfig.Memory.Size <= 0 {
				return fmt.Errorf("sensor %s: memory size must be positive", sensorConfig.ID)
			}
		}
		if sensorConfig.File != nil {
			subConfigs++
			if len(sensorConfig.File.Path) <= 0 {
				return fmt.Errorf("sensor %s: file path must not be empty", sensorConfig.ID)
			}
		}
		if sensorConfig.Udp != nil {
			subConfigs++
			if len(sensorConfig.Udp.Bind) <= 0 {
				return fmt.Errorf("sensor %s: udp bind address must not be empty", sensorConfig.ID)
			}
		}
		if subConfigs == 0 {
			return fmt.Errorf("sensor %s: sub-configuration for sensor is missing, use one of: memory | file | udp", sensorConfig.ID)
		}
		if subConfigs > 1 {
			return fmt.Errorf("sensor %s: only one sub-configuration is allowed", sensorConfig.ID)
		}
	}
	return nil
}

func validateActuators(config *Configuration) error {
	var actuatorIds []string
	for _, actuatorConfig := range config.Actuators {
		if len(actuatorConfig.ID) <= 0 {
			return errors.New("actuator id must not be empty")
		}
		if slices.Contains(actuatorIds, actuatorConfig.ID) {
			return fmt.Errorf("duplicate actuator id detected: %s", actuatorConfig.ID)
		}
		actuatorIds = append(actuatorIds, actuatorConfig.ID)

		subConfigs := 0
		if actuatorConfig.Memory != nil {
			subConfigs++
			if actuatorConfig.Memory.Size <= 0 {
				return fmt.Errorf("actuator %s: memory size must be positive", actuatorConfig.ID)
			}
		}
		if actuatorConfig.File != nil {
			subConfigs++
			if len(actuatorConfig.File.Path) <= 0 {
				return fmt.Errorf("actuator %s: file path must not be empty", actuatorConfig.ID)
			}
		}
		if actuatorConfig.Udp != nil {
			subConfigs++
			if len(actuatorConfig.Udp.Connect) <= 0 {
				return fmt.Errorf("actuator %s: udp connect address must not be empty", actuatorConfig.ID)
			}
		}
		if subConfigs == 0 {
			return fmt.Errorf("actuator %s: sub-configuration for actuator is missing, use one of: memory | file | udp", actuatorConfig.ID)
		}
		if subConfigs > 1 {
			return fmt.Errorf("actuator %s: only one sub-configuration is allowed", actuatorConfig.ID)
		}
	}
	return nil
}

func validateController(config *Configuration) error {
	c := config.Controller
	if len(c.ID) <= 0 {
		return errors.New("controller id must not be empty")
	}

	sensor := findSensor(config, c.Sensor)
	if sensor == nil {
		return fmt.Errorf("controller %s: no sensor with id found: %s", c.ID, c.Sensor)
	}
	actuator := findActuator(config, c.Actuator)
	if actuator == nil {
		return fmt.Errorf("controller %s: no actuator with id found: %s", c.ID, c.Actuator)
	}

	if !util.IsFinite(c.Pid.P) || !util.IsFinite(c.Pid.I) || !util.IsFinite(c.Pid.D) {
		return fmt.Errorf("controller %s: pid gains must be finite numbers", c.ID)
	}

	if c.OutputLimits != nil {
		if !util.IsFinite(c.OutputLimits.Min) || !util.IsFinite(c.OutputLimits.Max) {
			return fmt.Errorf("controller %s: output limits must be finite numbers", c.ID)
		}
		if c.OutputLimits.Min > c.OutputLimits.Max {
			return fmt.Errorf("controller %s: output limit min (%v) must not be greater than max (%v)", c.ID, c.OutputLimits.Min, c.OutputLimits.Max)
		}
	}

	if c.Interval <= 0 {
		return fmt.Errorf("controller %s: interval must be positive", c.ID)
	}
	if c.ErrorWindowSize <= 0 {
		return fmt.Errorf("controller %s: errorWindowSize must be positive", c.ID)
	}

	if !slices.Contains(FailSafeModes, c.FailSafe.Mode) {
		return fmt.Errorf("controller %s: unknown fail-safe mode: %s", c.ID, c.FailSafe.Mode)
	}
	if c.FailSafe.Mode == FailSafeModeDefault {
		if !util.IsFinite(c.FailSafe.Value) {
			return fmt.Errorf("controller %s: fail-safe value must be a finite number", c.ID)
		}
		if c.OutputLimits != nil && (c.FailSafe.Value < c.OutputLimits.Min || c.FailSafe.Value > c.OutputLimits.Max) {
			return fmt.Errorf("controller %s: fail-safe value %v is outside of the output limits", c.ID, c.FailSafe.Value)
		}
	}

	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("controller %s: input: %w", c.ID, err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("controller %s: output: %w", c.ID, err)
	}
	if sensor.Memory != nil && sensor.Memory.Size < c.Input.Size {
		return fmt.Errorf("controller %s: sensor %s is smaller than the input region (%d < %d)", c.ID, sensor.ID, sensor.Memory.Size, c.Input.Size)
	}
	if actuator.Memory != nil && actuator.Memory.Size < c.Output.Size {
		return fmt.Errorf("controller %s: actuator %s is smaller than the output region (%d < %d)", c.ID, actuator.ID, actuator.Memory.Size, c.Output.Size)
	}

	return nil
}

func findSensor(config *Configuration, id string) *SensorConfig {
	for i := range config.Sensors {
		if config.Sensors[i].ID == id {
			return &config.Sensors[i]
		}
	}
	return nil
}

func findActuator(config *Configuration, id string) *ActuatorConfig {
	for i := range config.Actuators {
		if config.Actuators[i].ID == id {
			return &config.Actuators[i]
		}
	}
	return nil
}
