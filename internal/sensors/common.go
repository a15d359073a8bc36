package sensors

import (
	"fmt"

	"github.com/markusressel/therm2go/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	SensorMap = cmap.New[Sensor]()
)

// Sensor is the transport of the input region, filled by an external sensor driver.
type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// Read fills buf with the current content of the input region
	Read(buf []byte) error

	// Close releases any resources held by this sensor
	Close() error
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	if config.Memory != nil {
		return NewMemorySensor(config), nil
	}

	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Udp != nil {
		return NewUdpSensor(config)
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}
