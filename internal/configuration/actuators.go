package configuration

type ActuatorConfig struct {
	ID     string                `json:"id" yaml:"id"`
	Memory *MemoryActuatorConfig `json:"memory,omitempty" yaml:"memory,omitempty"`
	File   *FileActuatorConfig   `json:"file,omitempty" yaml:"file,omitempty"`
	Udp    *UdpActuatorConfig    `json:"udp,omitempty" yaml:"udp,omitempty"`
}

type MemoryActuatorConfig struct {
	Size int `json:"size" yaml:"size"`
}

type FileActuatorConfig struct {
	Path string `json:"path" yaml:"path"`
}

type UdpActuatorConfig struct {
	Bind    string `json:"bind,omitempty" yaml:"bind,omitempty"`
	Connect string `json:"connect" yaml:"connect"`
}
