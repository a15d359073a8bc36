// Package buffer defines the fixed-offset byte layout of the input and output
// regions exchanged with the sensor and actuator drivers.
//
// Every value is an IEEE-754 float32 at a fixed byte offset. The default input
// region is 8 bytes wide (measured value at 0, target value at 4) and the default
// output region is 4 bytes wide (command at 0), both little-endian.
package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// FieldSize is the width of every encoded value
	FieldSize = 4

	DefaultInputSize      = 8
	DefaultMeasuredOffset = 0
	DefaultTargetOffset   = 4

	DefaultOutputSize    = 4
	DefaultCommandOffset = 0
)

var ErrShortBuffer = errors.New("buffer too short")

type ByteOrder string

const (
	LittleEndian ByteOrder = "little"
	BigEndian    ByteOrder = "big"
)

// ParseByteOrder accepts "little", "big" and their "-endian" variants.
func ParseByteOrder(value string) (ByteOrder, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "-endian") {
	case "", "little", "le":
		return LittleEndian, nil
	case "big", "be":
		return BigEndian, nil
	}
	return "", fmt.Errorf("unknown byte order: %s", value)
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// InputLayout describes where the measured and target values live in the input region.
type InputLayout struct {
	Size           int       `json:"size" yaml:"size"`
	MeasuredOffset int       `json:"measuredOffset" yaml:"measuredOffset"`
	TargetOffset   int       `json:"targetOffset" yaml:"targetOffset"`
	ByteOrder      ByteOrder `json:"byteOrder" yaml:"byteOrder"`
}

// OutputLayout describes where the command lives in the output region.
type OutputLayout struct {
	Size          int       `json:"size" yaml:"size"`
	CommandOffset int       `json:"commandOffset" yaml:"commandOffset"`
	ByteOrder     ByteOrder `json:"byteOrder" yaml:"byteOrder"`
}

func DefaultInputLayout() InputLayout {
	return InputLayout{
		Size:           DefaultInputSize,
		MeasuredOffset: DefaultMeasuredOffset,
		TargetOffset:   DefaultTargetOffset,
		ByteOrder:      LittleEndian,
	}
}

func DefaultOutputLayout() OutputLayout {
	return OutputLayout{
		Size:          DefaultOutputSize,
		CommandOffset: DefaultCommandOffset,
		ByteOrder:     LittleEndian,
	}
}

func (l InputLayout) Validate() error {
	if err := checkField("measuredOffset", l.MeasuredOffset, l.Size); err != nil {
		return err
	}
	if err := checkField("targetOffset", l.TargetOffset, l.Size); err != nil {
		return err
	}
	if overlaps(l.MeasuredOffset, l.TargetOffset) {
		return fmt.Errorf("measuredOffset %d and targetOffset %d overlap", l.MeasuredOffset, l.TargetOffset)
	}
	return nil
}

func (l OutputLayout) Validate() error {
	return checkField("commandOffset", l.CommandOffset, l.Size)
}

// Decode reads the measured and target values from buf.
func (l InputLayout) Decode(buf []byte) (measured float64, target float64, err error) {
	if len(buf) < l.Size {
		return 0, 0, fmt.Errorf("%w: input needs %d bytes, got %d", ErrShortBuffer, l.Size, len(buf))
	}
	order := l.ByteOrder.binary()
	measured = float64(math.Float32frombits(order.Uint32(buf[l.MeasuredOffset:])))
	target = float64(math.Float32frombits(order.Uint32(buf[l.TargetOffset:])))
	return measured, target, nil
}

// Encode writes both values into buf, used by test harnesses and the simulator
// to play the role of the sensor driver.
func (l InputLayout) Encode(buf []byte, measured float64, target float64) error {
	if len(buf) < l.Size {
		return fmt.Errorf("%w: input needs %d bytes, got %d", ErrShortBuffer, l.Size, len(buf))
	}
	order := l.ByteOrder.binary()
	order.PutUint32(buf[l.MeasuredOffset:], math.Float32bits(float32(measured)))
	order.PutUint32(buf[l.TargetOffset:], math.Float32bits(float32(target)))
	return nil
}

// Encode writes value into buf at the command offset.
// Values outside the float32 range saturate to +-Inf.
func (l OutputLayout) Encode(buf []byte, value float64) error {
	if len(buf) < l.Size {
		return fmt.Errorf("%w: output needs %d bytes, got %d", ErrShortBuffer, l.Size, len(buf))
	}
	l.ByteOrder.binary().PutUint32(buf[l.CommandOffset:], math.Float32bits(float32(value)))
	return nil
}

// Decode reads the command from buf.
func (l OutputLayout) Decode(buf []byte) (float64, error) {
	if len(buf) < l.Size {
		return 0, fmt.Errorf("%w: output needs %d bytes, got %d", ErrShortBuffer, l.Size, len(buf))
	}
	return float64(math.Float32frombits(l.ByteOrder.binary().Uint32(buf[l.CommandOffset:]))), nil
}

func checkField(name string, offset int, size int) error {
	if offset < 0 || offset+FieldSize > size {
		return fmt.Errorf("%s %d does not fit a %d byte field into a %d byte region", name, offset, FieldSize, size)
	}
	return nil
}

func overlaps(a, b int) bool {
	return a < b+FieldSize && b < a+FieldSize
}
