package actuators

import (
	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/ui"
	"github.com/markusressel/therm2go/internal/util"
)

// FileActuator atomically replaces a file with the output region on every write.
type FileActuator struct {
	Config configuration.ActuatorConfig `json:"configuration"`
}

func (actuator *FileActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *FileActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *FileActuator) Write(buf []byte) error {
	// resolve home dir path
	filePath, err := util.ExpandPath(actuator.Config.File.Path)
	if err != nil {
		return err
	}

	err = util.WriteBytesToFileAtomic(filePath, buf)
	if err != nil {
		ui.Error("Unable to write to file: %v", actuator.Config.File.Path)
	}
	return err
}

func (actuator *FileActuator) Close() error {
	return nil
}
