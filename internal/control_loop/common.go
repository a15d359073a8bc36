package control_loop

import "github.com/markusressel/therm2go/internal/pid"

// SampleReader provides the measured and target value of the current cycle
type SampleReader interface {
	ReadSample() (pid.Sample, error)
}

// CommandWriter publishes the actuator command of the current cycle
type CommandWriter interface {
	WriteCommand(value float64) error
}

type FailSafeMode string

const (
	// FailSafeHold does not write anything, the previous command stays in effect
	FailSafeHold FailSafeMode = "hold"
	// FailSafeDefault writes FailSafePolicy.Value
	FailSafeDefault FailSafeMode = "default"
	// FailSafeEscalate stops the control loop with the failure
	FailSafeEscalate FailSafeMode = "escalate"
)

// FailSafePolicy decides what happens when no valid command could be computed.
type FailSafePolicy struct {
	Mode  FailSafeMode `json:"mode"`
	Value float64      `json:"value"`
}

// StatusProvider exposes a read-only snapshot of a running controller
type StatusProvider interface {
	GetId() string
	Status() Status
}
