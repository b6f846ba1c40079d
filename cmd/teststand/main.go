package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/itohio/goteststand/pkg/config"
	"github.com/itohio/goteststand/pkg/engine"
	"github.com/itohio/goteststand/pkg/maestro"
	"github.com/itohio/goteststand/pkg/sensor"
)

const usage = `usage: teststand [flags] <command> [args]

commands:
  ports                            list serial ports
  convert <kg/s>                   mass flow in all units
  liquid <p1 psi> <p2 psi>         liquid orifice mass flow
  gas <p1 psi> <p2 psi>            gas orifice mass flow
  thrust <chamber psi> <exit psi>  nozzle thrust
  sensor <thermo|pressure|load> <count>
                                   convert a raw ADC count
  servo target <ch> <us>
  servo speed <ch> <value>
  servo accel <ch> <value>
  servo position <ch>
  servo errors
  servo home

flags:
`

var errUsage = errors.New("invalid arguments")

func main() {
	var (
		portFlag    = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag  = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag    = flag.Bool("mock", false, "Use simulated servo controller instead of serial port")
		verboseFlag = flag.Bool("v", false, "Debug logging")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	app := &app{cfg: cfg, out: os.Stdout, useMock: *mockFlag}
	if err := app.run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		log.WithError(err).Fatal("command failed")
	}
}

type app struct {
	cfg     *config.Config
	out     io.Writer
	useMock bool
	mock    *maestro.Mock
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	switch args[0] {
	case "ports":
		return a.ports()
	case "convert":
		v, err := floats(args[1:], 1)
		if err != nil {
			return err
		}
		return a.convert(v[0])
	case "liquid":
		v, err := floats(args[1:], 2)
		if err != nil {
			return err
		}
		return a.liquid(v[0], v[1])
	case "gas":
		v, err := floats(args[1:], 2)
		if err != nil {
			return err
		}
		return a.gas(v[0], v[1])
	case "thrust":
		v, err := floats(args[1:], 2)
		if err != nil {
			return err
		}
		return a.thrust(v[0], v[1])
	case "sensor":
		return a.sensor(args[1:])
	case "servo":
		return a.servo(args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (a *app) ports() error {
	ports, err := maestro.Ports()
	if err != nil {
		return err
	}
	for _, p := range ports {
		marker := ""
		if p.Maestro {
			marker = " [maestro]"
		}
		fmt.Fprintf(a.out, "%s%s\n", p.Description, marker)
	}
	return nil
}

func (a *app) convert(kgPerSec float64) error {
	mf := engine.ConvertMassFlow(kgPerSec)
	fmt.Fprintf(a.out, "%.6f kg/s\n%.6f kg/min\n%.6f lb/s\n%.6f lb/min\n",
		mf.KgPerSec(), mf.KgPerMin(), mf.LbPerSec(), mf.LbPerMin())
	return nil
}

func (a *app) liquid(p1, p2 float64) error {
	l := a.cfg.Liquid
	mf, err := engine.LiquidMassFlow(l.Cd, l.Density, p1, p2, l.Area)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"p1": p1, "p2": p2, "cd": l.Cd, "density": l.Density}).Debug("liquid flow")
	return a.convert(mf)
}

func (a *app) gas(p1, p2 float64) error {
	g := a.cfg.Gas
	flow, err := engine.GasMassFlow(engine.GasFlow{
		Cd:          g.Cd,
		Gc:          g.Gc,
		K:           g.K,
		Z:           g.Z,
		Temperature: g.Temperature,
		MolarMass:   g.MolarMass,
		P1:          p1,
		P2:          p2,
		Area:        g.Area,
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"p1": p1, "p2": p2, "regime": flow.Regime}).Debug("gas flow")
	fmt.Fprintf(a.out, "regime: %s\n", flow.Regime)
	return a.convert(flow.MassFlow)
}

func (a *app) thrust(chamber, exit float64) error {
	n := a.cfg.Nozzle
	res, err := engine.Thrust(engine.Nozzle{
		K:          n.K,
		Chamber:    chamber,
		Exit:       exit,
		Ambient:    n.Ambient,
		ExitArea:   n.ExitArea,
		ThroatArea: n.ThroatArea,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Cf: %.4f\nthrust: %.3f lbf\n", res.Cf, res.LBF)
	return nil
}

func (a *app) sensor(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: sensor needs a kind and a count", errUsage)
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: count %q: %v", errUsage, args[1], err)
	}

	adc := sensor.ADC{VRef: a.cfg.ADC.VRef, Resolution: a.cfg.ADC.Resolution}
	switch args[0] {
	case "thermo":
		t, err := sensor.NewThermocouple(adc).Read(count)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%.3f V\n%.2f °C\n%.2f K\n%.2f °F\n%.2f °R\n",
			t.Voltage, t.Celsius, t.Kelvin, t.Fahrenheit, t.Rankine)
	case "pressure":
		tc := a.cfg.Transducer
		tr, err := sensor.NewTransducer(adc, sensor.Model(tc.Model), tc.SupplyNominal, tc.SupplyMeasured)
		if err != nil {
			return err
		}
		p, err := tr.Read(count)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%.3f V\n%.2f psi\n%.0f Pa\n%.4f MPa\n", p.Voltage, p.PSI, p.Pa, p.MPa)
	case "load":
		lc := a.cfg.LoadCell
		cell, err := sensor.NewLoadCell(adc, lc.SupplyVoltage, lc.NoLoadVoltage, lc.LoadVoltage, lc.LoadLBF)
		if err != nil {
			return err
		}
		f, err := cell.ForceOf(count)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\n", f)
	default:
		return fmt.Errorf("%w: unknown sensor %q", errUsage, args[0])
	}
	return nil
}

func (a *app) servo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing servo command", errUsage)
	}

	ctrl, closeFn, err := a.controller()
	if err != nil {
		return err
	}
	defer closeFn()

	switch args[0] {
	case "home":
		return ctrl.GoHome()
	case "errors":
		flags, err := ctrl.Errors()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "errors: %s (0x%04x)\n", flags, uint16(flags))
		return nil
	case "position":
		v, err := channelArgs(args[1:], 1)
		if err != nil {
			return err
		}
		pos, err := ctrl.Position(uint8(v[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "channel %d: %d us\n", v[0], pos)
		return nil
	case "target", "speed", "accel":
		v, err := channelArgs(args[1:], 2)
		if err != nil {
			return err
		}
		ch, value := uint8(v[0]), uint16(v[1])
		switch args[0] {
		case "target":
			return ctrl.SetTarget(ch, value)
		case "speed":
			return ctrl.SetSpeed(ch, value)
		default:
			return ctrl.SetAcceleration(ch, value)
		}
	default:
		return fmt.Errorf("%w: unknown servo command %q", errUsage, args[0])
	}
}

func (a *app) controller() (maestro.Controller, func(), error) {
	if a.useMock {
		if a.mock == nil {
			a.mock = maestro.NewMock(&a.cfg.Mock)
		}
		return maestro.NewClient(a.mock, a.cfg.Maestro.Device, a.cfg.Maestro.ReadAttempts), func() {}, nil
	}

	s, err := maestro.Open(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			log.WithError(err).Warn("close failed")
		}
	}, nil
}

// channelArgs parses n unsigned values, the first of which is a channel number.
func channelArgs(args []string, n int) ([]uint64, error) {
	v, err := uints(args, n)
	if err != nil {
		return nil, err
	}
	if v[0] > maestro.MaxChannel {
		return nil, fmt.Errorf("%w: channel %d (max %d)", errUsage, v[0], maestro.MaxChannel)
	}
	return v, nil
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: expected %d values, got %d", errUsage, n, len(args))
	}
	out := make([]float64, n)
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errUsage, s)
		}
		out[i] = v
	}
	return out, nil
}

func uints(args []string, n int) ([]uint64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: expected %d values, got %d", errUsage, n, len(args))
	}
	out := make([]uint64, n)
	for i, s := range args {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an unsigned integer", errUsage, s)
		}
		out[i] = v
	}
	return out, nil
}
