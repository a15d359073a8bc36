package actuators

import (
	"fmt"

	"github.com/markusressel/therm2go/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	ActuatorMap = cmap.New[Actuator]()
)

// Actuator is the transport of the output region, consumed by an external actuator driver.
type Actuator interface {
	GetId() string

	GetConfig() configuration.ActuatorConfig

	// Write publishes buf as the new content of the output region
	Write(buf []byte) error

	// Close releases any resources held by this actuator
	Close() error
}

func NewActuator(config configuration.ActuatorConfig) (Actuator, error) {
	if config.Memory != nil {
		return NewMemoryActuator(config), nil
	}

	if config.File != nil {
		return &FileActuator{
			Config: config,
		}, nil
	}

	if config.Udp != nil {
		return NewUdpActuator(config)
	}

	return nil, fmt.Errorf("no matching actuator type for actuator: %s", config.ID)
}
