package max31855

import (
	"time"

	"tinygo.org/x/drivers"
)

// DefaultHalfPeriod is the clock half period of the bit-banged bus.
const DefaultHalfPeriod = time.Microsecond

// InputPin is a GPIO read by the host, e.g. machine.Pin.
type InputPin interface {
	Get() bool
}

// BitBang is a software SPI bus in mode 0, MSB first. Data is sampled after
// the falling clock edge.
type BitBang struct {
	SCK  OutputPin
	SDO  OutputPin // optional, the MAX31855 has no data input
	SDI  InputPin
	Half time.Duration

	sleep func(time.Duration)
}

var _ drivers.SPI = (*BitBang)(nil)

// NewBitBang returns a bus on the given pins with the default clock rate.
func NewBitBang(sck OutputPin, sdi InputPin) *BitBang {
	return &BitBang{SCK: sck, SDI: sdi, Half: DefaultHalfPeriod, sleep: time.Sleep}
}

// Configure idles the clock low.
func (b *BitBang) Configure() {
	b.SCK.Low()
	b.wait()
}

// Transfer clocks one byte out and in.
func (b *BitBang) Transfer(w byte) (byte, error) {
	var r byte
	for i := 7; i >= 0; i-- {
		b.SCK.Low()
		if b.SDO != nil {
			if w&(1<<i) != 0 {
				b.SDO.High()
			} else {
				b.SDO.Low()
			}
		}
		b.wait()

		r <<= 1
		if b.SDI.Get() {
			r |= 1
		}

		b.SCK.High()
		b.wait()
	}
	return r, nil
}

// Tx clocks max(len(w), len(r)) bytes. Missing write bytes are sent as zero.
func (b *BitBang) Tx(w, r []byte) error {
	n := max(len(w), len(r))
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, err := b.Transfer(out)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

func (b *BitBang) wait() {
	if b.Half <= 0 {
		return
	}
	if b.sleep == nil {
		b.sleep = time.Sleep
	}
	b.sleep(b.Half)
}
