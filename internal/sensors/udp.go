package sensors

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/markusressel/therm2go/internal/configuration"
	"github.com/markusressel/therm2go/internal/ui"
)

const maxDatagramSize = 65507

var ErrNoData = errors.New("no data received yet")

// UdpSensor receives the input region as datagrams.
// A background goroutine keeps the latest datagram, so Read never blocks.
// If nothing new arrived since the last Read, the last datagram is returned again.
type UdpSensor struct {
	Config configuration.SensorConfig

	conn *net.UDPConn

	mu       sync.Mutex
	latest   []byte
	received bool
	done     chan struct{}
}

func NewUdpSensor(config configuration.SensorConfig) (*UdpSensor, error) {
	laddr, err := net.ResolveUDPAddr("udp", config.Udp.Bind)
	if err != nil {
		return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
	}

	var conn *net.UDPConn
	if len(config.Udp.Connect) > 0 {
		raddr, err := net.ResolveUDPAddr("udp", config.Udp.Connect)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
		}
		conn, err = net.DialUDP("udp", laddr, raddr)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
		}
	} else {
		conn, err = net.ListenUDP("udp", laddr)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", config.ID, err)
		}
	}

	sensor := &UdpSensor{
		Config: config,
		conn:   conn,
		done:   make(chan struct{}),
	}
	go sensor.receive()
	return sensor, nil
}

func (sensor *UdpSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *UdpSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

// LocalAddr returns the address the sensor is listening on
func (sensor *UdpSensor) LocalAddr() net.Addr {
	return sensor.conn.LocalAddr()
}

func (sensor *UdpSensor) receive() {
	defer close(sensor.done)
	datagram := make([]byte, maxDatagramSize)
	for {
		n, err := sensor.conn.Read(datagram)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			ui.Warning("Sensor %s: could not receive from UDP socket: %v", sensor.GetId(), err)
			continue
		}
		ui.Debug("Sensor %s: received %d bytes from UDP", sensor.GetId(), n)

		sensor.mu.Lock()
		sensor.latest = append(sensor.latest[:0], datagram[:n]...)
		sensor.received = true
		sensor.mu.Unlock()
	}
}

func (sensor *UdpSensor) Read(buf []byte) error {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if !sensor.received {
		return fmt.Errorf("sensor %s: %w", sensor.GetId(), ErrNoData)
	}
	if len(sensor.latest) < len(buf) {
		return fmt.Errorf("sensor %s: datagram of %d bytes is shorter than the %d byte input region", sensor.GetId(), len(sensor.latest), len(buf))
	}
	copy(buf, sensor.latest)
	return nil
}

func (sensor *UdpSensor) Close() error {
	err := sensor.conn.Close()
	<-sensor.done
	return err
}
