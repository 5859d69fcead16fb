package onewire

// ROM function commands (spec.md §4.2) used once a reset has produced a
// presence pulse, to select which slave(s) the next transaction targets.
const (
	CmdMatchRom byte = 0x55
	CmdSkipRom  byte = 0xCC
	CmdReadRom  byte = 0x33
)

// MatchRomRaw resets the bus, issues MATCH ROM, and then writes the 8
// address octets of rom, addressing exactly that device for whatever
// function command follows. It does not take the session mutex.
func (s *Session) MatchRomRaw(rom *ROM) error {
	if rom == nil {
		panic("onewire: rom must not be nil")
	}
	if err := s.ResetRaw(); err != nil {
		return err
	}
	if _, err := s.WriteByteRaw(CmdMatchRom); err != nil {
		return err
	}
	for _, b := range rom.Code {
		if _, err := s.WriteByteRaw(b); err != nil {
			return err
		}
	}
	return nil
}

// MatchRom is the locking wrapper around MatchRomRaw.
func (s *Session) MatchRom(rom *ROM) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.MatchRomRaw(rom)
}

// SkipRomRaw resets the bus and issues SKIP ROM, addressing every
// slave on the bus at once. It is only safe to follow with a function
// command when exactly one slave is present. It does not take the
// session mutex.
func (s *Session) SkipRomRaw() error {
	if err := s.ResetRaw(); err != nil {
		return err
	}
	_, err := s.WriteByteRaw(CmdSkipRom)
	return err
}

// SkipRom is the locking wrapper around SkipRomRaw.
func (s *Session) SkipRom() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SkipRomRaw()
}

// ReadRomRaw resets the bus, issues READ ROM, and reads back the 8
// address octets. It is only well-defined when exactly one slave is on
// the bus — with more than one, the octets read are the logical AND of
// every slave's response and will not satisfy IsValid. It does not
// take the session mutex.
func (s *Session) ReadRomRaw() (*ROM, error) {
	if err := s.ResetRaw(); err != nil {
		return nil, err
	}
	if _, err := s.WriteByteRaw(CmdReadRom); err != nil {
		return nil, err
	}
	rom := new(ROM)
	for i := range rom.Code {
		b, err := s.ReadByteRaw()
		if err != nil {
			return nil, err
		}
		rom.Code[i] = b
	}
	return rom, nil
}

// ReadRom is the locking wrapper around ReadRomRaw.
func (s *Session) ReadRom() (*ROM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ReadRomRaw()
}
