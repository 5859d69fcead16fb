package onewire

import "fmt"

// resetByte, sent at 9600 baud, produces a correctly timed 1-Wire reset
// pulse: the start bit plus the low bits of 0xF0 hold the line low long
// enough to reset every slave on the bus.
const resetByte = 0xF0

// ResetRaw issues a 1-Wire reset and checks for a presence pulse. It
// does not take the session mutex; callers composing a larger _raw
// sequence are expected to hold it already.
//
// On success the UART baudrate is left at the bit-mode rate (115200).
// If the baudrate change to 9600 fails, neither the reset exchange nor
// the restore is attempted. If the restore to 115200 fails, that
// failure is reported even though the reset exchange itself succeeded.
func (s *Session) ResetRaw() error {
	if err := s.transport.SetBaudrate(baudReset); err != nil {
		return fmt.Errorf("%w: set %d baud for reset: %v", ErrBaud, baudReset, err)
	}

	tx := [1]byte{resetByte}
	rx := [1]byte{}
	if err := s.transport.TxRx(tx[:], rx[:]); err != nil {
		return fmt.Errorf("%w: reset pulse: %v", ErrTxRx, err)
	}

	if err := s.transport.SetBaudrate(baudBit); err != nil {
		return fmt.Errorf("%w: restore %d baud after reset: %v", ErrBaud, baudBit, err)
	}

	if rx[0] == 0x00 || rx[0] == resetByte {
		return ErrPresence
	}
	return nil
}

// Reset is the locking wrapper around ResetRaw.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ResetRaw()
}
