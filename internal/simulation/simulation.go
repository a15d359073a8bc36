package simulation

import (
	"errors"
	"math"
	"time"

	"github.com/markusressel/therm2go/internal/actuators"
	"github.com/markusressel/therm2go/internal/buffer"
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/control_loop"
	"github.com/markusressel/therm2go/internal/sensors"
	"github.com/markusressel/therm2go/internal/util"
)

// Point is the observed state after one simulated control cycle
type Point struct {
	Elapsed     time.Duration
	Temperature float64
	Target      float64
	Command     float64
	Saturated   bool
	Failed      bool
}

type Summary struct {
	Cycles           int
	Failures         int
	Saturations      int
	FinalTemperature float64
	MeanAbsError     float64
	MaxOvershoot     float64
}

// Simulation runs a real control driver against a Plant.
// The plant and the driver exchange their values through memory transports
// using the controller's configured buffer layouts.
type Simulation struct {
	config   configuration.ControllerConfig
	plant    *Plant
	schedule Schedule

	sensor   *sensors.MemorySensor
	actuator *actuators.MemoryActuator
	input    []byte
	driver   *control_loop.Driver

	// virtual clock of the driver, advanced by one interval per cycle
	clock time.Time
}

func New(config configuration.ControllerConfig, plant PlantConfig, schedule Schedule) (*Simulation, error) {
	if len(schedule) == 0 {
		return nil, errors.New("schedule must contain at least one setpoint")
	}

	sensor := sensors.NewMemorySensor(configuration.SensorConfig{
		ID:     "simulation",
		Memory: &configuration.MemorySensorConfig{Size: config.Input.Size},
	})
	actuator := actuators.NewMemoryActuator(configuration.ActuatorConfig{
		ID:     "simulation",
		Memory: &configuration.MemoryActuatorConfig{Size: config.Output.Size},
	})

	input, err := buffer.NewInput(sensor, config.Input)
	if err != nil {
		return nil, err
	}
	output, err := buffer.NewOutput(actuator, config.Output)
	if err != nil {
		return nil, err
	}
	simulation := &Simulation{
		config:   config,
		plant:    NewPlant(plant),
		schedule: schedule,
		sensor:   sensor,
		actuator: actuator,
		input:    make([]byte, config.Input.Size),
		clock:    time.Unix(0, 0),
	}
	simulation.driver, err = control_loop.NewDriverFromConfig(config, input, output, func(driverConfig *control_loop.DriverConfig) {
		driverConfig.Now = simulation.now
	})
	if err != nil {
		return nil, err
	}

	return simulation, nil
}

// Run simulates the given number of control cycles in virtual time.
// A cycle failure is only returned when the fail-safe policy escalates it.
func (s *Simulation) Run(cycles int) ([]Point, error) {
	result := make([]Point, 0, cycles)
	elapsed := time.Duration(0)
	command := 0.0

	for i := 0; i < cycles; i++ {
		target := s.schedule.Target(elapsed)
		err := s.config.Input.Encode(s.input, s.plant.Temperature, target)
		if err != nil {
			return result, err
		}
		if err = s.sensor.Update(s.input); err != nil {
			return result, err
		}

		cycleErr := s.driver.Cycle()
		if cycleErr != nil && s.config.FailSafe.Mode == configuration.FailSafeModeEscalate {
			return result, cycleErr
		}

		if s.actuator.Writes() > 0 {
			command, err = s.config.Output.Decode(s.actuator.Snapshot())
			if err != nil {
				return result, err
			}
		}

		result = append(result, Point{
			Elapsed:     elapsed,
			Temperature: s.plant.Temperature,
			Target:      target,
			Command:     command,
			Saturated:   cycleErr == nil && s.driver.Status().LastCommand.Saturated,
			Failed:      cycleErr != nil,
		})

		s.plant.Step(command, s.config.Interval)
		elapsed += s.config.Interval
		s.clock = s.clock.Add(s.config.Interval)
	}

	return result, nil
}

func (s *Simulation) now() time.Time {
	return s.clock
}

func (s *Simulation) Status() control_loop.Status {
	return s.driver.Status()
}

// Summarize computes tracking statistics of a simulation run
func Summarize(points []Point) Summary {
	summary := Summary{
		Cycles: len(points),
	}
	if len(points) == 0 {
		return summary
	}

	var absErrors []float64
	var overshoots []float64
	for _, point := range points {
		if point.Failed {
			summary.Failures++
		}
		if point.Saturated {
			summary.Saturations++
		}
		absErrors = append(absErrors, math.Abs(point.Target-point.Temperature))
		overshoots = append(overshoots, point.Temperature-point.Target)
	}
	summary.MeanAbsError = util.Avg(absErrors)
	summary.MaxOvershoot = math.Max(0, util.Max(overshoots))
	summary.FinalTemperature = points[len(points)-1].Temperature
	return summary
}
