package configuration

import (
	"time"

	"github.com/markusressel/therm2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath" yaml:"dbPath"`

	Sensors   []SensorConfig   `json:"sensors" yaml:"sensors"`
	Actuators []ActuatorConfig `json:"actuators" yaml:"actuators"`

	Controller ControllerConfig `json:"controller" yaml:"controller"`

	Statistics StatisticsConfig `json:"statistics" yaml:"statistics"`
	Api        ApiConfig        `json:"api" yaml:"api"`
	Profiling  ProfilingConfig  `json:"profiling" yaml:"profiling"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("therm2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Fatal("Couldn't detect home directory: %v", err)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/therm2go/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/therm2go/therm2go.db")

	viper.SetDefault("sensors", []SensorConfig{})
	viper.SetDefault("actuators", []ActuatorConfig{})

	viper.SetDefault("controller.id", "thermostat")
	viper.SetDefault("controller.interval", 100*time.Millisecond)
	viper.SetDefault("controller.measureInterval", false)
	viper.SetDefault("controller.errorWindowSize", 50)
	viper.SetDefault("controller.failSafe.mode", FailSafeModeHold)
	viper.SetDefault("controller.failSafe.value", 0.0)

	viper.SetDefault("controller.input.size", 8)
	viper.SetDefault("controller.input.measuredOffset", 0)
	viper.SetDefault("controller.input.targetOffset", 4)
	viper.SetDefault("controller.input.byteOrder", "little")
	viper.SetDefault("controller.output.size", 4)
	viper.SetDefault("controller.output.commandOffset", 0)
	viper.SetDefault("controller.output.byteOrder", "little")

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("profiling.enabled", false)
	viper.SetDefault("profiling.host", "localhost")
	viper.SetDefault("profiling.port", 6060)
}

// DetectAndReadConfigFile reads the config file found by viper and returns its path.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// LoadConfig decodes the viper state into CurrentConfig.
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			ByteOrderHookFunc(),
			FailSafeModeHookFunc(),
		),
	))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
