package sensors

import (
	"fmt"
	"sync"

	"github.com/markusressel/therm2go/internal/configuration"
)

// MemorySensor is an in-process input region.
// Whoever embeds the controller (or a test) writes it using Update.
type MemorySensor struct {
	Config configuration.SensorConfig

	mu     sync.Mutex
	region []byte
}

func NewMemorySensor(config configuration.SensorConfig) *MemorySensor {
	return &MemorySensor{
		Config: config,
		region: make([]byte, config.Memory.Size),
	}
}

func (sensor *MemorySensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *MemorySensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

// Update replaces the start of the region with data.
func (sensor *MemorySensor) Update(data []byte) error {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if len(data) > len(sensor.region) {
		return fmt.Errorf("sensor %s: %d bytes do not fit into a %d byte region", sensor.GetId(), len(data), len(sensor.region))
	}
	copy(sensor.region, data)
	return nil
}

func (sensor *MemorySensor) Read(buf []byte) error {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if len(buf) > len(sensor.region) {
		return fmt.Errorf("sensor %s: cannot read %d bytes from a %d byte region", sensor.GetId(), len(buf), len(sensor.region))
	}
	copy(buf, sensor.region)
	return nil
}

func (sensor *MemorySensor) Close() error {
	return nil
}
