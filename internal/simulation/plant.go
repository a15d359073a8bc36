package simulation

import (
	"time"
)

// PlantConfig describes a first-order thermal plant:
//
//	dT/dt = HeaterGain * command - LossCoefficient * (T - Ambient)
type PlantConfig struct {
	Initial         float64 `json:"initial" yaml:"initial"`
	Ambient         float64 `json:"ambient" yaml:"ambient"`
	HeaterGain      float64 `json:"heaterGain" yaml:"heaterGain"`
	LossCoefficient float64 `json:"lossCoefficient" yaml:"lossCoefficient"`
}

func DefaultPlantConfig() PlantConfig {
	return PlantConfig{
		Initial:         20,
		Ambient:         20,
		HeaterGain:      0.05,
		LossCoefficient: 0.01,
	}
}

type Plant struct {
	config      PlantConfig
	Temperature float64
}

func NewPlant(config PlantConfig) *Plant {
	return &Plant{
		config:      config,
		Temperature: config.Initial,
	}
}

// Step advances the plant by dt using forward euler integration.
func (p *Plant) Step(command float64, dt time.Duration) {
	rate := p.config.HeaterGain*command - p.config.LossCoefficient*(p.Temperature-p.config.Ambient)
	p.Temperature += rate * dt.Seconds()
}
