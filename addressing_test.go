package onewire

import "testing"

func TestSession_MatchRom(t *testing.T) {
	rom := &ROM{Code: romOf("2825EA520510F3CE")}
	ops := []scriptedOp{
		{wantTx: []byte{resetByte}, giveRx: []byte{0x10}},
		{wantTx: byteOctets(CmdMatchRom), giveRx: byteOctets(CmdMatchRom)},
	}
	for _, b := range rom.Code {
		ops = append(ops, scriptedOp{wantTx: byteOctets(b), giveRx: byteOctets(b)})
	}
	transport := &scriptedTransport{ops: ops}
	s, err := Init(transport)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MatchRom(rom); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSession_SkipRom(t *testing.T) {
	transport := &scriptedTransport{ops: []scriptedOp{
		{wantTx: []byte{resetByte}, giveRx: []byte{0x10}},
		{wantTx: byteOctets(CmdSkipRom), giveRx: byteOctets(CmdSkipRom)},
	}}
	s, err := Init(transport)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SkipRom(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSession_ReadRom(t *testing.T) {
	want := romOf("2825EA520510F3CE")
	ops := []scriptedOp{
		{wantTx: []byte{resetByte}, giveRx: []byte{0x10}},
		{wantTx: byteOctets(CmdReadRom), giveRx: byteOctets(CmdReadRom)},
	}
	for _, b := range want {
		ops = append(ops, scriptedOp{wantTx: byteOctets(0xFF), giveRx: byteOctets(b)})
	}
	transport := &scriptedTransport{ops: ops}
	s, err := Init(transport)
	if err != nil {
		t.Fatal(err)
	}
	rom, err := s.ReadRom()
	if err != nil {
		t.Fatal(err)
	}
	if rom.Code != want {
		t.Errorf("got %s, want %s", rom, NewROMFromBytes(want[:]))
	}
}

func TestSession_MatchRom_noPresence(t *testing.T) {
	rom := &ROM{Code: romOf("2825EA520510F3CE")}
	transport := &scriptedTransport{ops: []scriptedOp{
		{wantTx: []byte{resetByte}, giveRx: []byte{resetByte}},
	}}
	s, err := Init(transport)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MatchRom(rom); err != ErrPresence {
		t.Errorf("got %v, want ErrPresence", err)
	}
}
