package onewire

// 1-Wire search commands.
const (
	CmdSearchRom   byte = 0xF0
	CmdAlarmSearch byte = 0xEC
)

// Discrepancy marker sentinels (spec.md §3): 0xFF before any search has
// run, 0x00 once the last device of a tree has been returned. Any other
// value is a 1-based bit position (1..64) to revisit on the next pass.
const (
	discrepancyFirst byte = 0xFF
	discrepancyLast  byte = 0x00
)

// SearchResetRaw rewinds the discrepancy marker to its "fresh start"
// sentinel without taking the session mutex. The next SearchRaw call
// begins a new binary-tree traversal from scratch.
func (s *Session) SearchResetRaw() error {
	s.discrepancy = discrepancyFirst
	return nil
}

// SearchReset is the locking wrapper around SearchResetRaw.
func (s *Session) SearchReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SearchResetRaw()
}

// SearchRaw performs one SEARCH_ROM step without taking the session
// mutex. See SearchWithCommandRaw.
func (s *Session) SearchRaw(rom *ROM) error {
	return s.SearchWithCommandRaw(CmdSearchRom, rom)
}

// Search is the locking wrapper around SearchRaw.
func (s *Session) Search(rom *ROM) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SearchRaw(rom)
}

// SearchWithCommandRaw drives one pass of the classic 1-Wire binary-tree
// ROM enumeration using cmd (CmdSearchRom or CmdAlarmSearch), without
// taking the session mutex.
//
// Each of the 64 ROM bits is resolved by reading the bit and its
// complement from all still-responding slaves:
//
//   - (0,1) or (1,0): every slave agrees on this bit — take it.
//   - (1,1): no slave responded — the pass aborts with ErrNoDevice.
//   - (0,0): a discrepancy — both 0- and 1-branches have slaves. The
//     position is resolved against the discrepancy marker left by the
//     previous pass: positions scanned before it (numerically higher)
//     replay what was chosen last time, read out of the ROM buffer
//     before it is shifted again; the marked position itself flips
//     from 0 to 1; anything scanned after it (numerically lower, not
//     yet explored down this branch) defaults to 0. Whichever of these three ways
//     arrives at 0 becomes the new marker for the next pass — not just
//     a fresh default 0, a replayed 0 counts too, since the branch at
//     that position still has an unexplored 1-side.
//
// Reaching bit 64 with no abort assembles one complete ROM, copied into
// rom. A pass that discovers no new discrepancy leaves the marker at
// its "done" sentinel, so the following call returns ErrNoDevice and
// silently resets the search. A reset that finds no presence pulse
// (an empty bus) also ends the call with ErrNoDevice.
func (s *Session) SearchWithCommandRaw(cmd byte, rom *ROM) error {
	if rom == nil {
		panic("onewire: rom must not be nil")
	}

	if s.discrepancy == discrepancyLast {
		_ = s.SearchResetRaw()
		return ErrNoDevice
	}

	if err := s.ResetRaw(); err != nil {
		if err == ErrPresence {
			return ErrNoDevice
		}
		return err
	}
	if _, err := s.WriteByteRaw(cmd); err != nil {
		return err
	}

	// The marker compares against bit positions 1..64; the "fresh
	// start" sentinel 0xFF must compare higher than every real
	// position, so every discrepancy in the very first pass takes the
	// "not yet explored down this branch" default-to-0 path.
	const noMarkerYet = 65
	effectiveDiscrepancy := int(s.discrepancy)
	if s.discrepancy == discrepancyFirst {
		effectiveDiscrepancy = noMarkerYet
	}

	nextDiscrepancy := discrepancyLast
	id := &s.rom
	aborted := false

byteLoop:
	for byteIdx := 0; byteIdx < 8; byteIdx++ {
		for bitIdx := 0; bitIdx < 8; bitIdx++ {
			idBitNumber := 64 - (byteIdx*8 + bitIdx)

			b, err := s.ReadBitRaw()
			if err != nil {
				return err
			}
			bCpl, err := s.ReadBitRaw()
			if err != nil {
				return err
			}

			switch {
			case b == 1 && bCpl == 1:
				// No slave answered: empty bus, or every slave was
				// already filtered out of this pass.
				aborted = true
				break byteLoop
			case b == 0 && bCpl == 0:
				// Discrepancy: both branches have a slave behind them.
				switch {
				case idBitNumber > effectiveDiscrepancy:
					b = id[byteIdx] & 0x01
				case idBitNumber == effectiveDiscrepancy:
					b = 1
				default: // idBitNumber < effectiveDiscrepancy
					b = 0
				}
				// Whichever branch above produced 0 leaves an
				// unexplored 1-side at this position; remember the
				// last (deepest) such position for the next pass.
				if b == 0 {
					nextDiscrepancy = byte(idBitNumber)
				}
			}

			if err := s.WriteBitRaw(b); err != nil {
				return err
			}
			// The buffer is shifted LSB-first: each new bit lands at
			// the MSB and everything already written moves down,
			// which is why "the bit chosen last time at this
			// position" can be read back out of the LSB before this
			// shift, no matter how many passes ago it was written.
			id[byteIdx] = (id[byteIdx] >> 1) | (b << 7)
		}
	}

	s.discrepancy = nextDiscrepancy
	copy(rom.Code[:], id[:])

	if aborted {
		return ErrNoDevice
	}
	return nil
}

// SearchWithCommand is the locking wrapper around SearchWithCommandRaw.
func (s *Session) SearchWithCommand(cmd byte, rom *ROM) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SearchWithCommandRaw(cmd, rom)
}

// SearchVisitor is called once per ROM discovered by a batch search,
// and once more with a nil rom to mark end-of-iteration (or early
// abort). index is zero-based. If it returns a non-nil error the batch
// aborts after the end-of-iteration call.
type SearchVisitor func(s *Session, rom *ROM, index int, arg interface{}) error

// SearchWithCommandCallback loops SearchReset followed by repeated
// SearchWithCommand until the bus is exhausted, invoking visitor for
// each ROM found. visitor is always invoked one final time with a nil
// ROM to mark the end of iteration (whether the enumeration completed
// or visitor aborted it). ErrNoDevice from the underlying search is
// folded into a nil (success) result, since end-of-enumeration is not
// itself a caller-visible failure.
func (s *Session) SearchWithCommandCallback(cmd byte, visitor SearchVisitor, arg interface{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.SearchResetRaw(); err != nil {
		return 0, err
	}

	index := 0
	var rom ROM
	var err error
	for {
		if err = s.SearchWithCommandRaw(cmd, &rom); err != nil {
			break
		}
		if err = visitor(s, &rom, index, arg); err != nil {
			break
		}
		index++
	}
	_ = visitor(s, nil, index, arg)

	if err == ErrNoDevice {
		err = nil
	}
	return index, err
}

// SearchWithCallback is SearchWithCommandCallback using CmdSearchRom.
func (s *Session) SearchWithCallback(visitor SearchVisitor, arg interface{}) (int, error) {
	return s.SearchWithCommandCallback(CmdSearchRom, visitor, arg)
}

// SearchDevicesWithCommand fills roms (stopping at len(roms) or at
// ErrNoDevice) starting a fresh enumeration. If at least one ROM was
// found, ErrNoDevice is folded into a nil (success) result; the number
// of ROMs actually written is returned.
func (s *Session) SearchDevicesWithCommand(cmd byte, roms []ROM) (int, error) {
	if len(roms) == 0 {
		panic("onewire: roms must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.SearchResetRaw(); err != nil {
		return 0, err
	}

	var err error
	count := 0
	for count < len(roms) {
		if err = s.SearchWithCommandRaw(cmd, &roms[count]); err != nil {
			break
		}
		count++
	}
	if err == ErrNoDevice && count > 0 {
		err = nil
	}
	return count, err
}

// SearchDevices is SearchDevicesWithCommand using CmdSearchRom.
func (s *Session) SearchDevices(roms []ROM) (int, error) {
	return s.SearchDevicesWithCommand(CmdSearchRom, roms)
}
