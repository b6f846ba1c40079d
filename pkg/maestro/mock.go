package maestro

import (
	"errors"
	"sync"

	"github.com/itohio/goteststand/pkg/config"
)

// ErrClosed is returned by a closed Mock.
var ErrClosed = errors.New("maestro: port closed")

const channels = MaxChannel + 1

// Mock simulates a Maestro on the far side of a serial port. Servos reach
// their targets instantly.
type Mock struct {
	device byte
	home   uint16 // quarter microseconds

	mu      sync.Mutex
	in      []byte
	out     []byte
	closed  bool
	errors  ErrorFlags
	targets [channels]uint16 // quarter microseconds
	speeds  [channels]uint16
	accels  [channels]uint16
}

// NewMock creates a simulated controller.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{Device: DefaultDevice, Home: 1500}
	}
	device := cfg.Device
	if device == 0 {
		device = DefaultDevice
	}

	m := &Mock{
		device: device & 0x7F,
		home:   cfg.Home * 4,
	}
	for i := range m.targets {
		m.targets[i] = m.home
	}
	return m
}

// Write accepts command bytes from the host and runs every complete frame.
func (m *Mock) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	m.in = append(m.in, p...)
	m.process()
	return len(p), nil
}

// Read returns pending reply bytes. With no reply pending it returns 0, nil
// like a serial port read that timed out.
func (m *Mock) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	n := copy(p, m.out)
	m.out = m.out[n:]
	return n, nil
}

// ResetInputBuffer drops replies the host has not read.
func (m *Mock) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.out = nil
	return nil
}

// Close closes the simulated port.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// SetErrors raises error flags, reported by the next GetErrors command.
func (m *Mock) SetErrors(f ErrorFlags) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors |= f
}

// Target returns the target of a channel in microseconds, or 0 for a channel
// the controller does not have.
func (m *Mock) Target(channel uint8) uint16 {
	if int(channel) >= channels {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.targets[channel] / 4
}

// Speed returns the speed limit of a channel, or 0 for an unknown channel.
func (m *Mock) Speed(channel uint8) uint16 {
	if int(channel) >= channels {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.speeds[channel]
}

// Acceleration returns the acceleration limit of a channel, or 0 for an
// unknown channel.
func (m *Mock) Acceleration(channel uint8) uint16 {
	if int(channel) >= channels {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.accels[channel]
}

// process consumes complete frames from m.in. Must be called with m.mu held.
func (m *Mock) process() {
	for len(m.in) > 0 {
		if m.in[0] != startByte {
			m.errors |= SerialProtocolError
			m.in = m.in[1:]
			continue
		}
		if len(m.in) < 3 {
			return
		}

		size := frameSize(m.in[2])
		if size == 0 {
			m.errors |= SerialProtocolError
			m.in = m.in[3:]
			continue
		}
		if len(m.in) < size {
			return
		}

		frame := m.in[:size]
		m.in = m.in[size:]
		if frame[1] != m.device {
			continue
		}
		m.run(frame)
	}
}

func frameSize(cmd byte) int {
	switch cmd {
	case cmdSetTarget, cmdSetSpeed, cmdSetAcceleration:
		return 6
	case cmdGetPosition:
		return 4
	case cmdGetErrors, cmdGoHome:
		return 3
	default:
		return 0
	}
}

func (m *Mock) run(frame []byte) {
	for _, b := range frame[1:] {
		if b&0x80 != 0 {
			m.errors |= SerialProtocolError
			return
		}
	}

	cmd := frame[2]
	switch cmd {
	case cmdGetErrors:
		m.reply(uint16(m.errors))
		m.errors = 0
		return
	case cmdGoHome:
		for i := range m.targets {
			m.targets[i] = m.home
		}
		return
	}

	channel := frame[3]
	if int(channel) >= channels {
		m.errors |= SerialProtocolError
		return
	}

	switch cmd {
	case cmdSetTarget:
		m.targets[channel] = value(frame)
	case cmdSetSpeed:
		m.speeds[channel] = value(frame)
	case cmdSetAcceleration:
		m.accels[channel] = value(frame)
	case cmdGetPosition:
		m.reply(m.targets[channel])
	}
}

func (m *Mock) reply(v uint16) {
	m.out = append(m.out, byte(v), byte(v>>8))
}

func value(frame []byte) uint16 {
	return uint16(frame[4]) | uint16(frame[5])<<7
}
