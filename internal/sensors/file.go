package sensors

import (
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/util"
)

// FileSensor reads the input region from the start of a file, e.g. a shared memory
// file below /dev/shm that is kept up to date by the sensor driver.
type FileSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor *FileSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *FileSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *FileSensor) Read(buf []byte) error {
	// resolve home dir path
	filePath, err := util.ExpandPath(sensor.Config.File.Path)
	if err != nil {
		return err
	}
	return util.ReadBytesFromFile(filePath, buf)
}

func (sensor *FileSensor) Close() error {
	return nil
}
