package maestro

import "strings"

// ErrorFlags is the error register of the controller.
type ErrorFlags uint16

// Error register bits, as documented by Pololu.
const (
	SerialSignalError ErrorFlags = 1 << iota
	SerialOverrunError
	SerialBufferFull
	SerialCRCError
	SerialProtocolError
	SerialTimeoutError
	ScriptStackError
	ScriptCallStackError
	ScriptProgramCounterError
)

var errorNames = []struct {
	flag ErrorFlags
	name string
}{
	{SerialSignalError, "serial signal"},
	{SerialOverrunError, "serial overrun"},
	{SerialBufferFull, "serial buffer full"},
	{SerialCRCError, "serial CRC"},
	{SerialProtocolError, "serial protocol"},
	{SerialTimeoutError, "serial timeout"},
	{ScriptStackError, "script stack"},
	{ScriptCallStackError, "script call stack"},
	{ScriptProgramCounterError, "script program counter"},
}

// Has reports whether all bits of f are set.
func (e ErrorFlags) Has(f ErrorFlags) bool { return e&f == f }

// String lists the set flags by name, comma separated, or "none".
func (e ErrorFlags) String() string {
	if e == 0 {
		return "none"
	}

	var parts []string
	rest := e
	for _, n := range errorNames {
		if e&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, ", ")
}
