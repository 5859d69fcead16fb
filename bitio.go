package onewire

import "fmt"

// sendBitRaw exchanges a single 1-Wire bit: it writes 0xFF on the wire
// to write a logical 1 or to perform a read slot, and 0x00 to write a
// logical 0. The sampled octet is 0xFF iff the bus was released at
// sample time, i.e. the read bit is 1.
func (s *Session) sendBitRaw(write byte) (byte, error) {
	tx := byte(0x00)
	if write != 0 {
		tx = 0xFF
	}
	txBuf := [1]byte{tx}
	rxBuf := [1]byte{}
	if err := s.transport.TxRx(txBuf[:], rxBuf[:]); err != nil {
		return 0, fmt.Errorf("%w: bit exchange: %v", ErrTxRx, err)
	}
	if rxBuf[0] == 0xFF {
		return 1, nil
	}
	return 0, nil
}

// WriteBitRaw writes a single bit without taking the session mutex.
func (s *Session) WriteBitRaw(bit byte) error {
	_, err := s.sendBitRaw(bit)
	return err
}

// WriteBit is the locking wrapper around WriteBitRaw.
func (s *Session) WriteBit(bit byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.WriteBitRaw(bit)
}

// ReadBitRaw reads a single bit without taking the session mutex. It is
// a write of logical 1 whose sampled response is the read value.
func (s *Session) ReadBitRaw() (byte, error) {
	return s.sendBitRaw(1)
}

// ReadBit is the locking wrapper around ReadBitRaw.
func (s *Session) ReadBit() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ReadBitRaw()
}

// WriteByteRaw writes a byte and returns what was sampled back, without
// taking the session mutex. Bits are unpacked LSB-first into an 8-octet
// exchange: tx[i] is 0xFF for a 1-bit and 0x00 for a 0-bit, and bit i of
// the result is set iff rx[i] == 0xFF.
func (s *Session) WriteByteRaw(b byte) (byte, error) {
	var tx, rx [8]byte
	for i := 0; i < 8; i++ {
		if b&(1<<uint(i)) != 0 {
			tx[i] = 0xFF
		} else {
			tx[i] = 0x00
		}
	}
	if err := s.transport.TxRx(tx[:], rx[:]); err != nil {
		return 0, fmt.Errorf("%w: byte exchange: %v", ErrTxRx, err)
	}
	var r byte
	for i := 0; i < 8; i++ {
		if rx[i] == 0xFF {
			r |= 1 << uint(i)
		}
	}
	return r, nil
}

// WriteByte is the locking wrapper around WriteByteRaw.
func (s *Session) WriteByte(b byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.WriteByteRaw(b)
}

// ReadByteRaw reads a byte without taking the session mutex: it writes
// 0xFF and returns the sampled byte.
func (s *Session) ReadByteRaw() (byte, error) {
	return s.WriteByteRaw(0xFF)
}

// ReadByte is the locking wrapper around ReadByteRaw.
func (s *Session) ReadByte() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ReadByteRaw()
}
