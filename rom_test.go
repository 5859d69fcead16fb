package onewire

import "testing"

func TestNewROMFromBytes(t *testing.T) {
	bytes := []byte{0x28, 0x25, 0xea, 0x52, 0x05, 0x10, 0xf3, 0xce}
	str := "2825EA520510F3CE"
	rom := NewROMFromBytes(bytes)
	if rom.String() != str {
		t.Errorf("%s != %s", rom.String(), str)
	}
}

func TestNewROMFromString(t *testing.T) {
	bytes := []byte{0x28, 0x25, 0xea, 0x52, 0x05, 0x10, 0xf3, 0xce}
	str := "2825EA520510F3CE"
	rom, err := NewROMFromString(str)
	if err != nil {
		t.Error(err)
	} else if rom.String() != str {
		t.Errorf("%v != %v", rom.Code, bytes)
	}
}

func TestNewROMFromString_wrongLength(t *testing.T) {
	if _, err := NewROMFromString("2825EA52"); err == nil {
		t.Error("expected an error for a short rom code")
	}
}

func TestROM_IsValid(t *testing.T) {
	rom, err := NewROMFromString("2825EA520510F3B4")
	if err != nil {
		t.Fatal(err)
	}
	if !rom.IsValid() {
		t.Errorf("expected %s to be a valid rom", rom)
	}
	rom.Code[7] ^= 0xFF
	if rom.IsValid() {
		t.Errorf("expected %s to be an invalid rom", rom)
	}
}

func TestROM_FamilyCode(t *testing.T) {
	rom, err := NewROMFromString("2825EA520510F3CE")
	if err != nil {
		t.Fatal(err)
	}
	if rom.FamilyCode() != 0x28 {
		t.Errorf("got family code %02X, want 28", rom.FamilyCode())
	}
}
