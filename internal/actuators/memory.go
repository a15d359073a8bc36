package actuators

import (
	"fmt"
	"sync"

	"github.com/markusressel/therm2go/internal/configuration"
)

// MemoryActuator is an in-process output region.
type MemoryActuator struct {
	Config configuration.ActuatorConfig

	mu     sync.Mutex
	region []byte
	writes int
}

func NewMemoryActuator(config configuration.ActuatorConfig) *MemoryActuator {
	return &MemoryActuator{
		Config: config,
		region: make([]byte, config.Memory.Size),
	}
}

func (actuator *MemoryActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *MemoryActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *MemoryActuator) Write(buf []byte) error {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	if len(buf) > len(actuator.region) {
		return fmt.Errorf("actuator %s: %d bytes do not fit into a %d byte region", actuator.GetId(), len(buf), len(actuator.region))
	}
	copy(actuator.region, buf)
	actuator.writes++
	return nil
}

// Snapshot returns a copy of the region
func (actuator *MemoryActuator) Snapshot() []byte {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	return append([]byte(nil), actuator.region...)
}

// Writes returns how often the region was written
func (actuator *MemoryActuator) Writes() int {
	actuator.mu.Lock()
	defer actuator.mu.Unlock()
	return actuator.writes
}

func (actuator *MemoryActuator) Close() error {
	return nil
}
