package onewire

import "fmt"

// scriptedTransport replays a fixed sequence of expected tx/rx pairs,
// grounded on the Record/Playback pattern used to unit-test periph.io
// bus drivers without real hardware. It is enough to exercise the
// reset and bit/byte engine in isolation.
type scriptedTransport struct {
	ops       []scriptedOp
	pos       int
	initErr   error
	deinitErr error
	baudErr   error
	closed    bool
}

type scriptedOp struct {
	wantTx []byte
	giveRx []byte
}

func (s *scriptedTransport) Init() error   { return s.initErr }
func (s *scriptedTransport) Deinit() error { s.closed = true; return s.deinitErr }

// SetBaudrate fails with baudErr when set, so callers can exercise the
// ErrBaud path without a real serial port.
func (s *scriptedTransport) SetBaudrate(baud int) error { return s.baudErr }

func (s *scriptedTransport) TxRx(tx, rx []byte) error {
	if s.pos >= len(s.ops) {
		return fmt.Errorf("scriptedTransport: unexpected TxRx #%d: tx=%v", s.pos, tx)
	}
	op := s.ops[s.pos]
	s.pos++
	if len(op.wantTx) != len(tx) {
		return fmt.Errorf("scriptedTransport: op #%d: tx length %d, want %d", s.pos-1, len(tx), len(op.wantTx))
	}
	for i := range tx {
		if tx[i] != op.wantTx[i] {
			return fmt.Errorf("scriptedTransport: op #%d: tx[%d]=%02X, want %02X", s.pos-1, i, tx[i], op.wantTx[i])
		}
	}
	copy(rx, op.giveRx)
	return nil
}

// byteOctets unpacks b into the 8-octet LSB-first wire encoding
// bitio.go uses: 0xFF per set bit, 0x00 per clear bit.
func byteOctets(b byte) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		if b&(1<<uint(i)) != 0 {
			out[i] = 0xFF
		}
	}
	return out
}

// fakeDevice is one simulated 1-Wire slave on a searchTransport.
type fakeDevice struct {
	rom    [8]byte
	alarm  bool
	active bool
}

// searchTransport simulates the wired-AND electrical behavior of a
// real 1-Wire bus for reset, SEARCH ROM and ALARM SEARCH, grounded on
// periph.io's onewiretest.Playback.SearchTriplet simulation, adapted
// to the UART TxRx model (reset at one baudrate, bit/byte exchanges at
// another) instead of a GPIO triplet call.
type searchTransport struct {
	devices []*fakeDevice

	inCommandPhase bool
	cmd            byte
	bitPos         int
	subSlot        int // 0: id-bit read, 1: complement read, 2: direction write
}

func newSearchTransport(roms ...[8]byte) *searchTransport {
	t := &searchTransport{}
	for _, rom := range roms {
		t.devices = append(t.devices, &fakeDevice{rom: rom})
	}
	return t
}

func (t *searchTransport) Init() error   { return nil }
func (t *searchTransport) Deinit() error { return nil }

func (t *searchTransport) SetBaudrate(baud int) error { return nil }

func (t *searchTransport) TxRx(tx, rx []byte) error {
	switch len(tx) {
	case 1:
		return t.txrx1(tx, rx)
	case 8:
		return t.txrx8(tx, rx)
	default:
		return fmt.Errorf("searchTransport: unsupported exchange length %d", len(tx))
	}
}

// txrx1 handles both the reset pulse (9600 baud) and a single search
// bit slot (115200 baud); the transport doesn't need to track which
// baudrate is active to disambiguate them, since a reset pulse is
// always followed immediately by an 8-byte command exchange before any
// bit slot occurs.
func (t *searchTransport) txrx1(tx, rx []byte) error {
	if tx[0] == resetByte {
		t.reset()
		rx[0] = resetByte
		for _, d := range t.devices {
			rx[0] = 0x10 // any octet other than 0x00/0xF0 signals presence
			_ = d
			break
		}
		return nil
	}
	return t.searchBitSlot(tx, rx)
}

func (t *searchTransport) reset() {
	t.inCommandPhase = true
	t.bitPos = 0
	t.subSlot = 0
}

func (t *searchTransport) txrx8(tx, rx []byte) error {
	var b byte
	for i := 0; i < 8; i++ {
		if tx[i] == 0xFF {
			b |= 1 << uint(i)
		}
	}
	if t.inCommandPhase {
		t.cmd = b
		t.inCommandPhase = false
		switch b {
		case CmdSearchRom:
			t.activate(false)
		case CmdAlarmSearch:
			t.activate(true)
		}
	}
	copy(rx, tx)
	return nil
}

func (t *searchTransport) activate(alarmOnly bool) {
	for _, d := range t.devices {
		d.active = !alarmOnly || d.alarm
	}
}

func (t *searchTransport) searchBitSlot(tx, rx []byte) error {
	if t.cmd != CmdSearchRom && t.cmd != CmdAlarmSearch {
		rx[0] = tx[0]
		return nil
	}

	byteIdx, bitIdx := t.bitPos/8, t.bitPos%8
	var gotZero, gotOne bool
	for _, d := range t.devices {
		if !d.active {
			continue
		}
		if (d.rom[byteIdx]>>uint(bitIdx))&1 == 0 {
			gotZero = true
		} else {
			gotOne = true
		}
	}

	switch t.subSlot {
	case 0: // id bit: reads 0 if any active device holds a 0 here
		if gotZero {
			rx[0] = 0x00
		} else {
			rx[0] = 0xFF
		}
		t.subSlot = 1
	case 1: // complement bit: reads 0 if any active device holds a 1 here
		if gotOne {
			rx[0] = 0x00
		} else {
			rx[0] = 0xFF
		}
		t.subSlot = 2
	case 2: // direction bit written by the master
		chosen := byte(0)
		if tx[0] == 0xFF {
			chosen = 1
		}
		for _, d := range t.devices {
			if !d.active {
				continue
			}
			if (d.rom[byteIdx]>>uint(bitIdx))&1 != chosen {
				d.active = false
			}
		}
		rx[0] = tx[0]
		t.subSlot = 0
		t.bitPos++
	}
	return nil
}
