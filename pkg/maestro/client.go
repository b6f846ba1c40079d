// Package maestro implements the Pololu protocol of the Maestro USB servo
// controllers: setting servo targets, speed and acceleration, sending all
// channels home and reading back positions and error flags.
package maestro

import (
	"errors"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultDevice is the factory device number of a Maestro.
	DefaultDevice = 12
	// DefaultReadAttempts is the number of reads tried while waiting for a reply.
	DefaultReadAttempts = 10
	// MaxChannel is the highest channel number of the largest (Mini Maestro 24) model.
	MaxChannel = 23
	// MaxTarget is the largest target in microseconds that fits the 14-bit payload.
	MaxTarget = maxValue / 4

	maxValue = 0x3FFF
)

// Pololu protocol bytes. Commands are the compact protocol codes with the MSB cleared.
const (
	startByte          = 0xAA
	cmdSetTarget       = 0x04
	cmdSetSpeed        = 0x07
	cmdSetAcceleration = 0x09
	cmdGetPosition     = 0x10
	cmdGetErrors       = 0x21
	cmdGoHome          = 0x22
)

var (
	// ErrOutOfRange is returned for a channel or value that does not fit the protocol.
	ErrOutOfRange = errors.New("maestro: value out of range")
	// ErrNoResponse is returned when a reply is incomplete after every read attempt.
	ErrNoResponse = errors.New("maestro: no response")
)

// Port is the byte transport to the controller. go.bug.st/serial ports satisfy it.
type Port interface {
	io.ReadWriter
	// ResetInputBuffer discards unread input.
	ResetInputBuffer() error
}

// Client talks to one Maestro on a port. It is safe for concurrent use; each
// command and its reply are exchanged atomically.
type Client struct {
	port     Port
	device   byte
	attempts int
	log      *log.Entry

	mu sync.Mutex
}

// NewClient creates a client for the controller with the given device number.
// Zero values select DefaultDevice and DefaultReadAttempts.
func NewClient(port Port, device uint8, attempts int) *Client {
	if device == 0 {
		device = DefaultDevice
	}
	if attempts <= 0 {
		attempts = DefaultReadAttempts
	}

	return &Client{
		port:     port,
		device:   device & 0x7F,
		attempts: attempts,
		log:      log.WithFields(log.Fields{"component": "maestro", "device": device}),
	}
}

// SetTarget moves a servo to the pulse width us (microseconds). Zero stops
// sending pulses on the channel.
func (c *Client) SetTarget(channel uint8, us uint16) error {
	if us > MaxTarget {
		return fmt.Errorf("%w: target %dus (max %dus)", ErrOutOfRange, us, MaxTarget)
	}
	// the controller works in quarter microseconds
	return c.command(cmdSetTarget, channel, us*4)
}

// SetSpeed limits the servo speed in units of 0.25us/10ms. Zero is unlimited.
//
// For example 140 is 3.5us/ms, so moving from 1000us to 1350us takes 100ms.
func (c *Client) SetSpeed(channel uint8, speed uint16) error {
	return c.command(cmdSetSpeed, channel, speed)
}

// SetAcceleration limits the servo acceleration in units of (0.25us/10ms)/80ms.
// Zero is unlimited.
func (c *Client) SetAcceleration(channel uint8, accel uint16) error {
	return c.command(cmdSetAcceleration, channel, accel)
}

// GoHome sends all servos to their home positions.
func (c *Client) GoHome() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.WithField("cmd", "go_home").Debug("command")
	return c.write([]byte{startByte, c.device, cmdGoHome})
}

// Position returns the current position of a servo in microseconds.
func (c *Client) Position(channel uint8) (uint16, error) {
	if channel > MaxChannel {
		return 0, fmt.Errorf("%w: channel %d", ErrOutOfRange, channel)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.WithFields(log.Fields{"cmd": "get_position", "channel": channel}).Debug("command")
	v, err := c.request([]byte{startByte, c.device, cmdGetPosition, channel})
	if err != nil {
		return 0, fmt.Errorf("get position of channel %d: %w", channel, err)
	}
	return v / 4, nil
}

// Errors returns and clears the error flags of the controller.
func (c *Client) Errors() (ErrorFlags, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.WithField("cmd", "get_errors").Debug("command")
	v, err := c.request([]byte{startByte, c.device, cmdGetErrors})
	if err != nil {
		return 0, fmt.Errorf("get errors: %w", err)
	}
	return ErrorFlags(v), nil
}

func (c *Client) command(cmd, channel byte, value uint16) error {
	if channel > MaxChannel {
		return fmt.Errorf("%w: channel %d", ErrOutOfRange, channel)
	}
	if value > maxValue {
		return fmt.Errorf("%w: value %d", ErrOutOfRange, value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.WithFields(log.Fields{"cmd": cmd, "channel": channel, "value": value}).Debug("command")
	return c.write([]byte{
		startByte,
		c.device,
		cmd,
		channel,
		byte(value & 0x7F),
		byte((value >> 7) & 0x7F),
	})
}

func (c *Client) write(frame []byte) error {
	if _, err := c.port.Write(frame); err != nil {
		return fmt.Errorf("failed to send command 0x%02x: %w", frame[2], err)
	}
	return nil
}

// request sends a frame and reads the 2 byte little-endian reply, polling the
// port up to c.attempts times.
func (c *Client) request(frame []byte) (uint16, error) {
	// stale bytes would be taken for the reply
	if err := c.port.ResetInputBuffer(); err != nil {
		c.log.WithError(err).Warn("failed to flush input")
	}

	if err := c.write(frame); err != nil {
		return 0, err
	}

	var buf [2]byte
	got := 0
	for i := 0; i < c.attempts && got < len(buf); i++ {
		n, err := c.port.Read(buf[got:])
		got += n
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("failed to read reply: %w", err)
		}
	}
	if got < len(buf) {
		c.log.WithField("bytes", got).Warn("incomplete reply")
		return 0, fmt.Errorf("%w: got %d of %d bytes", ErrNoResponse, got, len(buf))
	}

	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}
