package buffer

import (
	"fmt"

	"github.com/markusressel/therm2go/internal/pid"
)

// Source is a raw byte transport providing the input region.
type Source interface {
	// Read fills buf with the current content of the input region
	Read(buf []byte) error
}

// Sink is a raw byte transport consuming the output region.
type Sink interface {
	// Write publishes buf as the new content of the output region
	Write(buf []byte) error
}

// Input reads samples from a Source using an InputLayout.
// The region is allocated once and reused for every cycle.
type Input struct {
	source Source
	layout InputLayout
	buf    []byte
}

func NewInput(source Source, layout InputLayout) (*Input, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Input{
		source: source,
		layout: layout,
		buf:    make([]byte, layout.Size),
	}, nil
}

// ReadSample reads and decodes the input region.
func (i *Input) ReadSample() (pid.Sample, error) {
	if err := i.source.Read(i.buf); err != nil {
		return pid.Sample{}, fmt.Errorf("reading input: %w", err)
	}
	measured, target, err := i.layout.Decode(i.buf)
	if err != nil {
		return pid.Sample{}, err
	}
	return pid.Sample{Measured: measured, Target: target}, nil
}

// Output writes commands to a Sink using an OutputLayout.
type Output struct {
	sink   Sink
	layout OutputLayout
	buf    []byte
}

func NewOutput(sink Sink, layout OutputLayout) (*Output, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Output{
		sink:   sink,
		layout: layout,
		buf:    make([]byte, layout.Size),
	}, nil
}

// WriteCommand encodes value into the output region and publishes it.
func (o *Output) WriteCommand(value float64) error {
	if err := o.layout.Encode(o.buf, value); err != nil {
		return err
	}
	if err := o.sink.Write(o.buf); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
