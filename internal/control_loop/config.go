package control_loop

import (
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/pid"
)

// NewDriverFromConfig creates the PID state and the driver of a configured controller.
// options can adjust the resulting DriverConfig, e.g. to replace the clock.
func NewDriverFromConfig(config configuration.ControllerConfig, reader SampleReader, writer CommandWriter, options ...func(*DriverConfig)) (*Driver, error) {
	var limits *pid.Limits
	if config.OutputLimits != nil {
		limits = &pid.Limits{
			Min: config.OutputLimits.Min,
			Max: config.OutputLimits.Max,
		}
	}
	state, err := pid.New(pid.Gains{
		P: config.Pid.P,
		I: config.Pid.I,
		D: config.Pid.D,
	}, limits)
	if err != nil {
		return nil, err
	}

	driverConfig := DriverConfig{
		ID:              config.ID,
		Interval:        config.Interval,
		MeasureInterval: config.MeasureInterval,
		ErrorWindowSize: config.ErrorWindowSize,
		FailSafe: FailSafePolicy{
			Mode:  FailSafeMode(config.FailSafe.Mode),
			Value: config.FailSafe.Value,
		},
	}
	for _, option := range options {
		option(&driverConfig)
	}
	return NewDriver(driverConfig, state, reader, writer)
}
