package onewire

import "testing"

func TestCRC8_knownRom(t *testing.T) {
	rom, err := NewROMFromString("2825EA520510F3B4")
	if err != nil {
		t.Fatal(err)
	}
	if got := CRC8(rom.Code[0:7]); got != rom.Code[7] {
		t.Errorf("CRC8 = %02X, want %02X", got, rom.Code[7])
	}
}

func TestCRC8_empty(t *testing.T) {
	if got := CRC8(nil); got != 0x00 {
		t.Errorf("CRC8(nil) = %02X, want 00", got)
	}
}
