package control_loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/therm2go/internal/pid"
	"github.com/markusressel/therm2go/internal/ui"
	"github.com/markusressel/therm2go/internal/util"
)

type DriverConfig struct {
	ID string
	// Interval is the fixed sampling interval
	Interval time.Duration
	// MeasureInterval uses the measured time since the last successful step as dt
	MeasureInterval bool
	// ErrorWindowSize is the number of recent control errors kept for Status
	ErrorWindowSize int
	FailSafe        FailSafePolicy
	// Now is the clock used to measure the interval, defaults to time.Now
	Now func() time.Time
}

// Status is a snapshot of the driver's observable state.
type Status struct {
	ID string `json:"id"`

	Cycles      uint64 `json:"cycles"`
	Failures    uint64 `json:"failures"`
	Saturations uint64 `json:"saturations"`
	// FailSafeWrites counts how often the fail-safe value was written
	FailSafeWrites uint64 `json:"failSafeWrites"`

	LastSample  pid.Sample  `json:"lastSample"`
	LastCommand pid.Command `json:"lastCommand"`
	// HasCommand is false until the first command was written
	HasCommand bool `json:"hasCommand"`
	LastError  string `json:"lastError,omitempty"`

	// average and largest absolute control error over the recent window
	AvgError    float64 `json:"avgError"`
	MaxAbsError float64 `json:"maxAbsError"`

	LastCycle time.Time     `json:"lastCycle"`
	LastDt    time.Duration `json:"lastDt"`
}

// Driver runs the control cycle: read sample, step the PID state, write command.
// The PID state is owned by the driver and only touched from Cycle.
type Driver struct {
	config DriverConfig
	state  *pid.State
	reader SampleReader
	writer CommandWriter

	now func() time.Time
	// time of the last successful step
	lastStep time.Time

	errorWindow *rolling.PointPolicy
	// number of errors in the window, which starts out zero-filled
	windowFill int

	mu     sync.RWMutex
	status Status
}

func NewDriver(config DriverConfig, state *pid.State, reader SampleReader, writer CommandWriter) (*Driver, error) {
	if config.Interval <= 0 {
		return nil, fmt.Errorf("%w: %v", pid.ErrInvalidInterval, config.Interval)
	}
	if config.ErrorWindowSize <= 0 {
		config.ErrorWindowSize = 1
	}
	if len(config.FailSafe.Mode) <= 0 {
		config.FailSafe.Mode = FailSafeHold
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Driver{
		config:      config,
		state:       state,
		reader:      reader,
		writer:      writer,
		now:         now,
		errorWindow: util.CreateRollingWindow(config.ErrorWindowSize),
		status: Status{
			ID: config.ID,
		},
	}, nil
}

func (d *Driver) GetId() string {
	return d.config.ID
}

// Status returns a copy of the current status
func (d *Driver) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Run invokes Cycle once per interval until ctx is cancelled.
// Every run starts from a cleared PID state.
// Failures are logged, unless the fail-safe policy escalates them.
func (d *Driver) Run(ctx context.Context) error {
	d.reset()

	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Cycle()
			if err == nil {
				continue
			}
			if d.config.FailSafe.Mode == FailSafeEscalate {
				return err
			}
			ui.Warning("Controller %s: %v", d.config.ID, err)
		}
	}
}

// reset clears the PID state and the interval measurement
func (d *Driver) reset() {
	d.state.Reset()
	d.lastStep = time.Time{}
}

// Cycle performs exactly one control cycle.
func (d *Driver) Cycle() error {
	now := d.now()
	dt := d.config.Interval
	if d.config.MeasureInterval && !d.lastStep.IsZero() {
		dt = now.Sub(d.lastStep)
	}

	sample, err := d.reader.ReadSample()
	if err != nil {
		return d.fail(now, err)
	}

	cmd, err := d.state.Step(sample, dt)
	if err != nil {
		return d.fail(now, err)
	}
	d.lastStep = now

	if cmd.Saturated {
		ui.Debug("Controller %s: actuator saturated at %.4f (P: %.4f, I: %.4f, D: %.4f)", d.config.ID, cmd.Value, cmd.P, cmd.I, cmd.D)
	}

	err = d.writer.WriteCommand(cmd.Value)

	d.errorWindow.Append(sample.Error())
	if d.windowFill < d.config.ErrorWindowSize {
		d.windowFill++
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.Cycles++
	d.status.LastCycle = now
	d.status.LastDt = dt
	d.status.LastSample = sample
	d.status.AvgError = d.errorWindow.Reduce(rolling.Sum) / float64(d.windowFill)
	d.status.MaxAbsError = util.GetWindowAbsMax(d.errorWindow)
	if cmd.Saturated {
		d.status.Saturations++
	}
	if err != nil {
		d.status.Failures++
		d.status.LastError = err.Error()
		return err
	}
	d.status.LastCommand = cmd
	d.status.HasCommand = true
	d.status.LastError = ""
	return nil
}

// fail applies the fail-safe policy after a read or step failure.
// The PID state has not been modified at this point. The offending sample is not
// recorded, it may contain NaN or Inf.
func (d *Driver) fail(now time.Time, cause error) error {
	var writeErr error
	if d.config.FailSafe.Mode == FailSafeDefault {
		writeErr = d.writer.WriteCommand(d.config.FailSafe.Value)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.Cycles++
	d.status.Failures++
	d.status.LastCycle = now
	d.status.LastError = cause.Error()
	if d.config.FailSafe.Mode == FailSafeDefault && writeErr == nil {
		d.status.FailSafeWrites++
		d.status.LastCommand = pid.Command{Value: d.config.FailSafe.Value}
		d.status.HasCommand = true
	}

	return errors.Join(cause, writeErr)
}
