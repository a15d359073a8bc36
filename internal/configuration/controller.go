package configuration

import (
	"time"

	"github.com/markusressel/therm2go/internal/buffer"
)

type FailSafeMode string

const (
	// FailSafeModeHold keeps the last command in effect
	FailSafeModeHold FailSafeMode = "hold"
	// FailSafeModeDefault writes FailSafeConfig.Value
	FailSafeModeDefault FailSafeMode = "default"
	// FailSafeModeEscalate stops the daemon
	FailSafeModeEscalate FailSafeMode = "escalate"
)

var FailSafeModes = []FailSafeMode{FailSafeModeHold, FailSafeModeDefault, FailSafeModeEscalate}

type ControllerConfig struct {
	ID       string `json:"id" yaml:"id"`
	Sensor   string `json:"sensor" yaml:"sensor"`
	Actuator string `json:"actuator" yaml:"actuator"`

	Pid          PidConfig     `json:"pid" yaml:"pid"`
	OutputLimits *LimitsConfig `json:"outputLimits,omitempty" yaml:"outputLimits,omitempty"`

	// Interval is the fixed sampling interval
	Interval time.Duration `json:"interval" yaml:"interval"`
	// MeasureInterval uses the measured elapsed time between cycles as dt instead of Interval
	MeasureInterval bool `json:"measureInterval" yaml:"measureInterval"`
	// ErrorWindowSize is the number of recent errors kept for the status average
	ErrorWindowSize int `json:"errorWindowSize" yaml:"errorWindowSize"`

	FailSafe FailSafeConfig `json:"failSafe" yaml:"failSafe"`

	Input  buffer.InputLayout  `json:"input" yaml:"input"`
	Output buffer.OutputLayout `json:"output" yaml:"output"`
}

type PidConfig struct {
	P float64 `json:"p" yaml:"p"`
	I float64 `json:"i" yaml:"i"`
	D float64 `json:"d" yaml:"d"`
}

type LimitsConfig struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

type FailSafeConfig struct {
	Mode  FailSafeMode `json:"mode" yaml:"mode"`
	Value float64      `json:"value" yaml:"value"`
}
