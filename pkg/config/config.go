package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the test-stand configuration.
type Config struct {
	Serial     SerialConfig     `yaml:"serial"`
	Maestro    MaestroConfig    `yaml:"maestro"`
	ADC        ADCConfig        `yaml:"adc"`
	Transducer TransducerConfig `yaml:"transducer"`
	LoadCell   LoadCellConfig   `yaml:"load_cell"`
	Liquid     LiquidConfig     `yaml:"liquid"`
	Gas        GasConfig        `yaml:"gas"`
	Nozzle     NozzleConfig     `yaml:"nozzle"`
	Mock       MockConfig       `yaml:"mock"`
}

// SerialConfig contains serial port configuration for the servo controller.
type SerialConfig struct {
	Port        string        `yaml:"port"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"` // per read attempt
}

// MaestroConfig contains Pololu protocol parameters.
type MaestroConfig struct {
	Device       uint8 `yaml:"device"`        // device number, 12 by default
	ReadAttempts int   `yaml:"read_attempts"` // reads tried before a reply is considered lost
}

// ADCConfig describes the analog inputs of the sensor board.
type ADCConfig struct {
	VRef       float32 `yaml:"vref"`
	Resolution int     `yaml:"resolution"`
}

// TransducerConfig contains pressure transducer parameters.
type TransducerConfig struct {
	Model          string  `yaml:"model"` // "linear" or "ratiometric"
	SupplyNominal  float32 `yaml:"supply_nominal"`
	SupplyMeasured float32 `yaml:"supply_measured"`
}

// LoadCellConfig contains load cell calibration.
type LoadCellConfig struct {
	SupplyVoltage float32 `yaml:"supply_voltage"`
	NoLoadVoltage float32 `yaml:"no_load_voltage"`
	LoadVoltage   float32 `yaml:"load_voltage"`
	LoadLBF       float32 `yaml:"load_lbf"`
}

// LiquidConfig describes the liquid propellant feed orifice.
type LiquidConfig struct {
	Cd      float64 `yaml:"cd"`
	Density float64 `yaml:"density"` // kg/m^3
	Area    float64 `yaml:"area"`    // m^2
}

// GasConfig describes the gaseous propellant feed orifice.
type GasConfig struct {
	Cd          float64 `yaml:"cd"`
	Gc          float64 `yaml:"gc"`
	K           float64 `yaml:"k"`
	Z           float64 `yaml:"z"`
	Temperature float64 `yaml:"temperature"` // K
	MolarMass   float64 `yaml:"molar_mass"`  // kg/kmol
	Area        float64 `yaml:"area"`        // m^2
}

// NozzleConfig describes the engine nozzle.
type NozzleConfig struct {
	K          float64 `yaml:"k"`
	Ambient    float64 `yaml:"ambient"`     // psi
	ExitArea   float64 `yaml:"exit_area"`   // m^2
	ThroatArea float64 `yaml:"throat_area"` // m^2
}

// MockConfig contains simulated servo controller configuration.
type MockConfig struct {
	Device uint8  `yaml:"device"` // 0 follows maestro.device
	Home   uint16 `yaml:"home"`   // home position of every channel (us)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:        "/dev/ttyACM0", // "COM3" on Windows
			BaudRate:    9600,
			ReadTimeout: 10 * time.Millisecond,
		},
		Maestro: MaestroConfig{
			Device:       12,
			ReadAttempts: 10,
		},
		ADC: ADCConfig{
			VRef:       5.0,
			Resolution: 1024,
		},
		Transducer: TransducerConfig{
			Model:          "ratiometric",
			SupplyNominal:  5.0,
			SupplyMeasured: 4.93,
		},
		LoadCell: LoadCellConfig{
			SupplyVoltage: 5.0,
			NoLoadVoltage: 0.5,
			LoadVoltage:   4.5,
			LoadLBF:       100,
		},
		Liquid: LiquidConfig{
			Cd:      0.7,
			Density: 1000, // water cold-flow
			Area:    1e-4,
		},
		Gas: GasConfig{
			Cd:          0.8,
			Gc:          1,
			K:           1.4,
			Z:           1.0,
			Temperature: 293.15,
			MolarMass:   31.9988, // oxygen
			Area:        1e-5,
		},
		Nozzle: NozzleConfig{
			K:          1.2,
			Ambient:    14.7,
			ExitArea:   4e-4,
			ThroatArea: 1e-4,
		},
		Mock: MockConfig{
			Home: 1500,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults fills transport and ADC fields a file explicitly set to zero.
// Fields missing from the file already hold their defaults. Zeros in the
// calibration and propellant sections are kept so the sensor and engine
// constructors report them.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = def.Serial.ReadTimeout
	}

	if c.Maestro.Device == 0 {
		c.Maestro.Device = def.Maestro.Device
	}
	if c.Maestro.ReadAttempts == 0 {
		c.Maestro.ReadAttempts = def.Maestro.ReadAttempts
	}

	if c.ADC.VRef == 0 {
		c.ADC.VRef = def.ADC.VRef
	}
	if c.ADC.Resolution == 0 {
		c.ADC.Resolution = def.ADC.Resolution
	}

	if c.Transducer.Model == "" {
		c.Transducer.Model = def.Transducer.Model
	}
	if c.Transducer.SupplyNominal == 0 {
		c.Transducer.SupplyNominal = def.Transducer.SupplyNominal
	}
	if c.Transducer.SupplyMeasured == 0 {
		c.Transducer.SupplyMeasured = c.Transducer.SupplyNominal
	}

	if c.Mock.Device == 0 {
		c.Mock.Device = c.Maestro.Device
	}
	if c.Mock.Home == 0 {
		c.Mock.Home = def.Mock.Home
	}
}
