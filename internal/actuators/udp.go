package actuators

import (
	"fmt"
	"net"

	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/ui"
)

// UdpActuator sends the output region as a single datagram on every write.
type UdpActuator struct {
	Config configuration.ActuatorConfig

	conn *net.UDPConn
}

func NewUdpActuator(config configuration.ActuatorConfig) (*UdpActuator, error) {
	raddr, err := net.ResolveUDPAddr("udp", config.Udp.Connect)
	if err != nil {
		return nil, fmt.Errorf("actuator %s: %w", config.ID, err)
	}

	var laddr *net.UDPAddr
	if len(config.Udp.Bind) > 0 {
		laddr, err = net.ResolveUDPAddr("udp", config.Udp.Bind)
		if err != nil {
			return nil, fmt.Errorf("actuator %s: %w", config.ID, err)
		}
	}

	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("actuator %s: %w", config.ID, err)
	}

	return &UdpActuator{
		Config: config,
		conn:   conn,
	}, nil
}

func (actuator *UdpActuator) GetId() string {
	return actuator.Config.ID
}

func (actuator *UdpActuator) GetConfig() configuration.ActuatorConfig {
	return actuator.Config
}

func (actuator *UdpActuator) Write(buf []byte) error {
	n, err := actuator.conn.Write(buf)
	if err != nil {
		return fmt.Errorf("actuator %s: could not send to UDP socket: %w", actuator.GetId(), err)
	}
	ui.Debug("Actuator %s: wrote %d bytes to UDP", actuator.GetId(), n)
	return nil
}

func (actuator *UdpActuator) Close() error {
	return actuator.conn.Close()
}
