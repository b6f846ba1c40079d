package maestro

import (
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/itohio/goteststand/pkg/config"
)

const (
	// DefaultBaudRate is used when the configuration leaves it at zero. The
	// controller detects the baud rate automatically.
	DefaultBaudRate = 9600
	// DefaultReadTimeout bounds a single read attempt.
	DefaultReadTimeout = 10 * time.Millisecond

	pololuVID = "1ffb"
)

// PortInfo describes a serial port found on the host.
type PortInfo struct {
	Name        string
	Description string
	Maestro     bool // USB vendor is Pololu
}

// Ports returns a list of available serial ports.
func Ports() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		info := PortInfo{Name: p.Name, Description: p.Name}
		if p.IsUSB {
			info.Description = fmt.Sprintf("%s (USB %s:%s %s)", p.Name, p.VID, p.PID, p.Product)
			info.Maestro = strings.EqualFold(p.VID, pololuVID)
		}
		result = append(result, info)
	}

	return result, nil
}

// Serial is a Client connected over a serial port.
type Serial struct {
	*Client

	name string
	conn serial.Port
	mu   sync.Mutex
}

// Open opens the configured serial port and returns a connected client.
func Open(cfg *config.Config) (*Serial, error) {
	baudRate := cfg.Serial.BaudRate
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	timeout := cfg.Serial.ReadTimeout
	if timeout == 0 {
		timeout = DefaultReadTimeout
	}

	port, err := serial.Open(cfg.Serial.Port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Serial.Port, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", cfg.Serial.Port, err)
	}

	log.WithFields(log.Fields{"port": cfg.Serial.Port, "baud": baudRate}).Info("servo controller connected")

	return &Serial{
		Client: NewClient(port, cfg.Maestro.Device, cfg.Maestro.ReadAttempts),
		name:   cfg.Serial.Port,
		conn:   port,
	}, nil
}

// Close closes the serial port. It is safe to call more than once.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", s.name, err)
	}
	return nil
}
