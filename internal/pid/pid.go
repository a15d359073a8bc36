// Package pid implements the discrete PID step used by the control cycle.
//
// Sign convention: the control error is target - measured. A positive command
// therefore means "drive the measured value up", e.g. add heat.
package pid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidSample is returned when the measured or target value is NaN or Inf.
	ErrInvalidSample = errors.New("invalid sample")
	// ErrInvalidInterval is returned when the sampling interval is not strictly positive.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrInvalidLimits is returned by New when min > max or a bound is not finite.
	ErrInvalidLimits = errors.New("invalid output limits")
	// ErrNonFiniteOutput is returned by Step when the terms overflow to NaN or Inf.
	ErrNonFiniteOutput = errors.New("non-finite controller output")
)

type Gains struct {
	// Proportional Constant
	P float64 `json:"p"`
	// Integral Constant
	I float64 `json:"i"`
	// Derivative Constant
	D float64 `json:"d"`
}

// Limits bounds the actuator command to [Min, Max].
type Limits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Sample is a single reading taken at the start of a control cycle.
type Sample struct {
	Measured float64 `json:"measured"`
	Target   float64 `json:"target"`
}

// Error returns target - measured.
func (s Sample) Error() float64 {
	return s.Target - s.Measured
}

func (s Sample) valid() bool {
	return isFinite(s.Measured) && isFinite(s.Target)
}

// Command is the result of one Step.
type Command struct {
	// Value is the actuator signal, clamped to the output limits if configured
	Value float64 `json:"value"`
	// Saturated is set when Value had to be clamped. This is informational only.
	Saturated bool `json:"saturated"`

	// contributions of the individual terms to the unclamped output
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`
}

// State holds the persistent state of a single PID loop.
// It must only ever be used from a single goroutine.
type State struct {
	gains  Gains
	limits *Limits

	// integral of error over time
	integral float64
	// error of the last successful step
	previousError float64
	// whether previousError holds a valid value
	hasPrevious bool
}

// New creates a State with zero integral and no previous error.
// limits may be nil, in which case the output is unbounded.
func New(gains Gains, limits *Limits) (*State, error) {
	if !isFinite(gains.P) || !isFinite(gains.I) || !isFinite(gains.D) {
		return nil, fmt.Errorf("gains must be finite: %+v", gains)
	}
	var l *Limits
	if limits != nil {
		if !isFinite(limits.Min) || !isFinite(limits.Max) || limits.Min > limits.Max {
			return nil, fmt.Errorf("%w: min=%v max=%v", ErrInvalidLimits, limits.Min, limits.Max)
		}
		copied := *limits
		l = &copied
	}
	return &State{
		gains:  gains,
		limits: l,
	}, nil
}

func (s *State) Gains() Gains {
	return s.gains
}

// Limits returns a copy of the configured output limits, or nil if there are none.
func (s *State) Limits() *Limits {
	if s.limits == nil {
		return nil
	}
	l := *s.limits
	return &l
}

// Reset clears the integral and forgets the previous error.
func (s *State) Reset() {
	s.integral = 0
	s.previousError = 0
	s.hasPrevious = false
}

// Step advances the loop by one sampling interval dt.
//
// On error the state is left untouched and no command is produced.
func (s *State) Step(sample Sample, dt time.Duration) (Command, error) {
	if !sample.valid() {
		return Command{}, fmt.Errorf("%w: measured=%v target=%v", ErrInvalidSample, sample.Measured, sample.Target)
	}
	if dt <= 0 {
		return Command{}, fmt.Errorf("%w: %v", ErrInvalidInterval, dt)
	}
	seconds := dt.Seconds()

	err := sample.Error()

	// --- P Term ---
	proportionalTerm := s.gains.P * err

	// --- I Term ---
	increment := err * seconds
	integral := s.integral + increment
	integralTerm := s.gains.I * integral

	// --- D Term (on error) ---
	// no derivative on the first cycle to avoid a kick
	derivativeTerm := 0.0
	if s.hasPrevious {
		derivativeTerm = s.gains.D * (err - s.previousError) / seconds
	}

	output := proportionalTerm + integralTerm + derivativeTerm
	if !isFinite(output) || !isFinite(integral) {
		return Command{}, fmt.Errorf("%w: P=%v I=%v D=%v", ErrNonFiniteOutput, proportionalTerm, integralTerm, derivativeTerm)
	}

	// --- Clamp Output ---
	cmd := Command{
		Value: output,
		P:     proportionalTerm,
		I:     integralTerm,
		D:     derivativeTerm,
	}
	if s.limits != nil {
		push := s.gains.I * increment
		if output > s.limits.Max {
			cmd.Value = s.limits.Max
			cmd.Saturated = true
			if push > 0 || s.gains.I == 0 {
				// anti-windup: don't integrate further into the upper bound
				integral = s.integral
			}
		} else if output < s.limits.Min {
			cmd.Value = s.limits.Min
			cmd.Saturated = true
			if push < 0 || s.gains.I == 0 {
				// anti-windup: don't integrate further into the lower bound
				integral = s.integral
			}
		}
		cmd.I = s.gains.I * integral
	}

	// --- Update State for Next Step ---
	s.integral = integral
	s.previousError = err
	s.hasPrevious = true

	return cmd, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
