package configuration

type SensorConfig struct {
	ID     string              `json:"id" yaml:"id"`
	Memory *MemorySensorConfig `json:"memory,omitempty" yaml:"memory,omitempty"`
	File   *FileSensorConfig   `json:"file,omitempty" yaml:"file,omitempty"`
	Udp    *UdpSensorConfig    `json:"udp,omitempty" yaml:"udp,omitempty"`
}

// MemorySensorConfig is an in-process region, filled by whoever embeds therm2go.
type MemorySensorConfig struct {
	Size int `json:"size" yaml:"size"`
}

type FileSensorConfig struct {
	Path string `json:"path" yaml:"path"`
}

type UdpSensorConfig struct {
	Bind    string `json:"bind" yaml:"bind"`
	Connect string `json:"connect,omitempty" yaml:"connect,omitempty"`
}
