package maestro

import "go.bug.st/serial"

// Controller defines the servo operations of a Maestro, real or simulated.
type Controller interface {
	SetTarget(channel uint8, us uint16) error
	SetSpeed(channel uint8, speed uint16) error
	SetAcceleration(channel uint8, accel uint16) error
	GoHome() error
	Position(channel uint8) (uint16, error)
	Errors() (ErrorFlags, error)
}

var _ Controller = (*Client)(nil)

var _ Port = (serial.Port)(nil)

var _ Port = (*Mock)(nil)
