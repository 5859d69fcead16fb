package onewire

import (
	"fmt"
	"strconv"
	"strings"
)

// ROM is a 64-bit 1-Wire device address: one family-code octet, six
// serial-number octets, and a CRC8 octet, all stored LSB-first (Code[0]
// is the family code, Code[7] is the CRC).
type ROM struct {
	Code [8]byte
}

// NewROMFromBytes copies the first 8 bytes of code into a new ROM. It
// panics if code is shorter than 8 bytes.
func NewROMFromBytes(code []byte) *ROM {
	r := new(ROM)
	copy(r.Code[0:8], code[0:8])
	return r
}

// NewROMFromString parses a 16-character hex string (LSB-first byte
// order, as printed by String) into a ROM.
func NewROMFromString(code string) (*ROM, error) {
	if len(code) != 16 {
		return nil, fmt.Errorf("onewire: rom code must be 16 hex characters, got %d", len(code))
	}
	r := new(ROM)
	for i := 0; i < 8; i++ {
		b, err := strconv.ParseUint(code[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("onewire: rom code: %w", err)
		}
		r.Code[i] = byte(b)
	}
	return r, nil
}

// String renders the ROM as 16 uppercase hex characters, family code
// first.
func (r *ROM) String() string {
	parts := make([]string, 8)
	for i, b := range r.Code {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, "")
}

// FamilyCode returns the device family byte (Code[0]).
func (r *ROM) FamilyCode() byte {
	return r.Code[0]
}

// IsValid reports whether the ROM's CRC8 octet matches the other 7
// octets.
func (r *ROM) IsValid() bool {
	return CRC8(r.Code[0:7]) == r.Code[7]
}
