// Package ds18b20 drives Maxim/Dallas DS18S20, DS1822, and DS18B20
// temperature sensors over a onewire.Session. It is built entirely on
// the core package's public API, so it works unchanged against any
// Transport the core supports.
package ds18b20

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/onewire-uart/go-onewire"
)

// Function commands specific to the temperature-sensor family, issued
// after a ROM has been selected with MatchRom or SkipRom.
const (
	cmdConvertT        byte = 0x44
	cmdReadPowerSupply byte = 0xB4
	cmdReadScratchpad  byte = 0xBE
	cmdWriteScratchpad byte = 0x4E
	cmdCopyScratchpad  byte = 0x48
	cmdRecallEE        byte = 0xB8
)

// Resolution codes. DS18S20 only distinguishes "standard" from
// "extended"; DS1822/DS18B20 encode 9..12 bits directly.
const (
	ResolutionStandard byte = 0x0
	ResolutionExtended byte = 0x1

	Resolution9Bits  byte = 0x0
	Resolution10Bits byte = 0x1
	Resolution11Bits byte = 0x2
	Resolution12Bits byte = 0x3
)

// Family codes this package knows how to drive.
const (
	FamilyDS18S20 byte = 0x10
	FamilyDS1822  byte = 0x22
	FamilyDS18B20 byte = 0x28
)

// ErrUnsupportedFamily is returned when a ROM's family code is not one
// of the three temperature-sensor families this package drives.
var ErrUnsupportedFamily = errors.New("ds18b20: unsupported family code")

// ErrScratchpadCRC is returned when a scratchpad read back from the
// device fails its CRC8 check.
var ErrScratchpadCRC = errors.New("ds18b20: scratchpad crc error")

// Sensor is one temperature-sensor device addressed on a shared
// onewire.Session. When rom is nil at construction, the sensor assumes
// it is the only device on the bus and uses SKIP ROM for every
// transaction instead of MATCH ROM.
type Sensor struct {
	session    *onewire.Session
	rom        *onewire.ROM
	singleMode bool

	familyCode    byte
	parasitic     bool
	resolution    byte
	name          string
	precision     string
	convertTime   time.Duration
	eepromWriteTime time.Duration
}

// New probes and configures a sensor on session. If rom is nil, the
// device's ROM is read directly with READ ROM, which only succeeds
// when exactly one 1-Wire device is on the bus; otherwise rom selects
// one device among several with MATCH ROM. If required is true, a
// missing or unreachable device is a hard error; otherwise New still
// succeeds with best-effort defaults so callers can retry later.
func New(session *onewire.Session, rom *onewire.ROM, required bool) (*Sensor, error) {
	s := &Sensor{
		session:         session,
		rom:             rom,
		resolution:      ResolutionStandard,
		convertTime:     750 * time.Millisecond,
		eepromWriteTime: 10 * time.Millisecond,
	}

	s.session.Protect(true)
	defer s.session.Unprotect(true)

	if s.rom == nil {
		s.singleMode = true
		rom, err := s.session.ReadRomRaw()
		if err != nil {
			if required {
				return nil, fmt.Errorf("ds18b20: read single device rom: %w", err)
			}
		} else {
			s.rom = rom
		}
	} else {
		s.singleMode = false
		if err := s.session.MatchRomRaw(s.rom); err != nil {
			if required {
				return nil, fmt.Errorf("ds18b20: select %s: %w", s.rom, err)
			}
			return s, nil
		}
	}

	if s.rom == nil {
		return s, nil
	}
	s.familyCode = s.rom.FamilyCode()

	pm, err := s.inParasiticModeRaw()
	if err != nil {
		return nil, err
	}
	s.parasitic = pm

	switch s.familyCode {
	case FamilyDS18S20:
		s.name = "DS18S20 - High-Precision Digital Thermometer"
		s.precision = "9 bits"
	case FamilyDS1822:
		s.name = "DS1822 - Econo Digital Thermometer"
	case FamilyDS18B20:
		s.name = "DS18B20 - Programmable Resolution Digital Thermometer"
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnsupportedFamily, s.familyCode)
	}

	if s.familyCode == FamilyDS1822 || s.familyCode == FamilyDS18B20 {
		sp, err := s.readScratchpadRaw()
		if err != nil {
			return nil, err
		}
		s.resolution = (sp[4] >> 5) & 0b11
		s.convertTime = time.Millisecond * time.Duration(750/(8>>s.resolution))
		s.precision = fmt.Sprintf("%d bits", 9+s.resolution)
	}

	return s, nil
}

// ROM returns the device's 64-bit address.
func (s *Sensor) ROM() *onewire.ROM { return s.rom }

// FamilyCode returns the device's family byte.
func (s *Sensor) FamilyCode() byte { return s.familyCode }

// Name returns a human-readable device description.
func (s *Sensor) Name() string { return s.name }

// Precision returns a human-readable resolution description.
func (s *Sensor) Precision() string { return s.precision }

// ParasiticPower reports whether the device reported parasitic-power
// operation at construction time.
func (s *Sensor) ParasiticPower() bool { return s.parasitic }

// Resolution returns the device's current resolution code (meaningless
// for DS18S20, which only has ResolutionStandard/ResolutionExtended).
func (s *Sensor) Resolution() byte { return s.resolution }

// SetResolution reconfigures the conversion resolution. For DS18S20 it
// only distinguishes standard from extended mode; for DS1822/DS18B20 it
// writes the configuration register in the scratchpad.
func (s *Sensor) SetResolution(resolution byte) error {
	s.session.Protect(true)
	defer s.session.Unprotect(true)

	switch s.familyCode {
	case FamilyDS18S20:
		s.resolution = resolution
		if resolution == ResolutionStandard {
			s.precision = "9 bits"
		} else {
			s.precision = "extended"
		}
		return nil
	case FamilyDS1822, FamilyDS18B20:
		sp, err := s.readScratchpadRaw()
		if err != nil {
			return err
		}
		s.resolution = resolution & 0b11
		data := []byte{sp[2], sp[3], (s.resolution << 5) | 0b00011111}
		if err := s.writeScratchpadRaw(data); err != nil {
			return err
		}
		s.convertTime = time.Millisecond * time.Duration(750/(8>>s.resolution))
		s.precision = fmt.Sprintf("%d bits", 9+s.resolution)
		return nil
	default:
		return fmt.Errorf("%w: 0x%02X", ErrUnsupportedFamily, s.familyCode)
	}
}

// Alarms returns the device's high and low alarm trip points.
func (s *Sensor) Alarms() (high, low int8, err error) {
	s.session.Protect(true)
	defer s.session.Unprotect(true)

	sp, err := s.readScratchpadRaw()
	if err != nil {
		return 0, 0, err
	}
	return int8(sp[2]), int8(sp[3]), nil
}

// SetAlarms writes new high and low alarm trip points.
func (s *Sensor) SetAlarms(high, low int8) error {
	s.session.Protect(true)
	defer s.session.Unprotect(true)

	data := []byte{byte(high), byte(low)}
	switch s.familyCode {
	case FamilyDS1822, FamilyDS18B20:
		sp, err := s.readScratchpadRaw()
		if err != nil {
			return err
		}
		data = append(data, sp[4])
	}
	return s.writeScratchpadRaw(data)
}

// SaveEEPROM copies the scratchpad's alarm/configuration bytes to the
// device's EEPROM, so they survive a power cycle.
func (s *Sensor) SaveEEPROM() error {
	s.session.Protect(true)
	defer s.session.Unprotect(true)
	return s.copyScratchpadRaw()
}

// LoadEEPROM recalls the device's EEPROM contents back into the
// scratchpad. It is a no-op in parasitic-power mode, where the device
// performs this recall automatically at power-up.
func (s *Sensor) LoadEEPROM() error {
	s.session.Protect(true)
	defer s.session.Unprotect(true)
	return s.recallScratchpadRaw()
}

// TemperatureCelsius starts a conversion, waits for it to complete, and
// returns the result in degrees Celsius.
func (s *Sensor) TemperatureCelsius() (float32, error) {
	s.session.Protect(true)
	defer s.session.Unprotect(true)

	if err := s.convertTRaw(); err != nil {
		return 0, err
	}
	sp, err := s.readScratchpadRaw()
	if err != nil {
		return 0, err
	}
	return float32(s.calcTemperature(sp)) / 10000.0, nil
}

func (s *Sensor) selectRaw() error {
	if s.singleMode {
		return s.session.SkipRomRaw()
	}
	return s.session.MatchRomRaw(s.rom)
}

func (s *Sensor) convertTRaw() error {
	if err := s.selectRaw(); err != nil {
		return err
	}
	if _, err := s.session.WriteByteRaw(cmdConvertT); err != nil {
		return err
	}
	return s.waitRaw(s.convertTime)
}

func (s *Sensor) inParasiticModeRaw() (bool, error) {
	if err := s.selectRaw(); err != nil {
		return false, err
	}
	if _, err := s.session.WriteByteRaw(cmdReadPowerSupply); err != nil {
		return false, err
	}
	bit, err := s.session.ReadBitRaw()
	if err != nil {
		return false, err
	}
	return bit == 0, nil
}

func (s *Sensor) readScratchpadRaw() ([]byte, error) {
	if err := s.selectRaw(); err != nil {
		return nil, err
	}
	if _, err := s.session.WriteByteRaw(cmdReadScratchpad); err != nil {
		return nil, err
	}
	data := make([]byte, 9)
	for i := range data {
		b, err := s.session.ReadByteRaw()
		if err != nil {
			return nil, err
		}
		data[i] = b
	}
	scratchpad, crc := data[0:8], data[8]
	if onewire.CRC8(scratchpad) != crc {
		return nil, ErrScratchpadCRC
	}
	return scratchpad, nil
}

func (s *Sensor) writeScratchpadRaw(data []byte) error {
	if err := s.selectRaw(); err != nil {
		return err
	}
	if _, err := s.session.WriteByteRaw(cmdWriteScratchpad); err != nil {
		return err
	}
	for _, b := range data {
		if _, err := s.session.WriteByteRaw(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sensor) copyScratchpadRaw() error {
	if err := s.selectRaw(); err != nil {
		return err
	}
	if _, err := s.session.WriteByteRaw(cmdCopyScratchpad); err != nil {
		return err
	}
	return s.waitRaw(s.eepromWriteTime)
}

func (s *Sensor) recallScratchpadRaw() error {
	if s.parasitic {
		return nil
	}
	if err := s.selectRaw(); err != nil {
		return err
	}
	if _, err := s.session.WriteByteRaw(cmdRecallEE); err != nil {
		return err
	}
	return s.waitRaw(s.convertTime)
}

// waitRaw blocks until the device signals completion by releasing the
// bus, or duration elapses. In parasitic-power mode the device cannot
// drive the bus to signal completion, so it simply sleeps instead.
func (s *Sensor) waitRaw(duration time.Duration) error {
	if s.parasitic {
		time.Sleep(duration)
		return nil
	}
	deadline := time.Now().Add(duration)
	for {
		bit, err := s.session.ReadBitRaw()
		if err != nil {
			return err
		}
		if bit != 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return nil
		}
	}
}

// calcTemperature decodes the little-endian 16-bit raw reading at the
// start of the scratchpad into ten-thousandths of a degree Celsius.
// DS18S20 refines the coarse 9-bit reading using the COUNT REMAIN /
// COUNT PER C bytes Maxim documents for that family; DS1822/DS18B20
// encode temperature directly at 1/16th-degree resolution.
func (s *Sensor) calcTemperature(scratchpad []byte) int {
	var raw int16
	_ = binary.Read(bytes.NewReader(scratchpad[0:2]), binary.LittleEndian, &raw)

	switch s.familyCode {
	case FamilyDS18S20:
		temp := int(raw) * 5000
		if s.resolution > ResolutionStandard {
			countRemain := int(scratchpad[6])
			countPerC := int(scratchpad[7])
			temp = temp - 2500 + 10000*(countPerC-countRemain)/countPerC
		}
		return temp
	default: // FamilyDS1822, FamilyDS18B20
		return int(raw) * 10000 / 16
	}
}
