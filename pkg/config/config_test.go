package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, 10*time.Millisecond, cfg.Serial.ReadTimeout)
	assert.Equal(t, uint8(12), cfg.Maestro.Device)
	assert.Equal(t, 10, cfg.Maestro.ReadAttempts)
	assert.Equal(t, float32(5.0), cfg.ADC.VRef)
	assert.Equal(t, 1024, cfg.ADC.Resolution)
	assert.Equal(t, "ratiometric", cfg.Transducer.Model)
	assert.Equal(t, float64(1.4), cfg.Gas.K)
	assert.Equal(t, float64(1), cfg.Gas.Gc)
	assert.Equal(t, float64(1.2), cfg.Nozzle.K)
	assert.Equal(t, uint16(1500), cfg.Mock.Home)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "COM4"
  baud_rate: 57600
  read_timeout: 25ms

maestro:
  device: 14
  read_attempts: 20

adc:
  vref: 3.3
  resolution: 4096

transducer:
  model: linear

load_cell:
  supply_voltage: 4.95
  no_load_voltage: 0.51
  load_voltage: 2.73
  load_lbf: 50

gas:
  cd: 0.75
  gc: 1
  k: 1.31
  z: 0.99
  temperature: 280
  molar_mass: 44.013
  area: 0.000002

nozzle:
  k: 1.25
  ambient: 12.2
  exit_area: 0.0003
  throat_area: 0.0001
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "COM4", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
	assert.Equal(t, 25*time.Millisecond, cfg.Serial.ReadTimeout)
	assert.Equal(t, uint8(14), cfg.Maestro.Device)
	assert.Equal(t, 20, cfg.Maestro.ReadAttempts)
	assert.Equal(t, float32(3.3), cfg.ADC.VRef)
	assert.Equal(t, 4096, cfg.ADC.Resolution)
	assert.Equal(t, "linear", cfg.Transducer.Model)
	assert.Equal(t, float32(50), cfg.LoadCell.LoadLBF)
	assert.Equal(t, float64(44.013), cfg.Gas.MolarMass)
	assert.Equal(t, float64(0.000002), cfg.Gas.Area)
	assert.Equal(t, float64(12.2), cfg.Nozzle.Ambient)

	// sections not in the file keep their defaults
	assert.Equal(t, Default().Liquid, cfg.Liquid)
	// mock follows the configured device number
	assert.Equal(t, uint8(14), cfg.Mock.Device)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB1"
transducer:
  supply_nominal: 5.1
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, float32(5.1), cfg.Transducer.SupplyNominal)

	// Should use defaults for missing fields
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, "ratiometric", cfg.Transducer.Model)
	assert.Equal(t, float32(4.93), cfg.Transducer.SupplyMeasured)
	assert.Equal(t, Default().Gas, cfg.Gas)
}

func TestLoad_ExplicitZeroSectionKept(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
gas:
  cd: 0
  gc: 0
  k: 0
  z: 0
  temperature: 0
  molar_mass: 0
  area: 0
serial:
  baud_rate: 0
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, GasConfig{}, cfg.Gas)
	assert.Equal(t, Default().Nozzle, cfg.Nozzle)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Nozzle.ThroatArea = 2e-4

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, 2e-4, loaded.Nozzle.ThroatArea)
	assert.Equal(t, cfg.Serial.ReadTimeout, loaded.Serial.ReadTimeout)
}
