package onewire

import (
	"fmt"
	"sync"
)

// Session represents one logical 1-Wire bus. It borrows a Transport for
// its lifetime — it does not own or close it beyond the Deinit call —
// and holds the working state a search enumeration needs across calls:
// the ROM buffer being assembled and the discrepancy marker.
//
// A Session's mutex guards the ROM buffer, the discrepancy marker, and
// the serial sequence of UART baudrate changes and exchanges: it is a
// hard invariant that nothing else changes the UART baudrate between a
// reset pulse and its restore.
type Session struct {
	transport Transport

	rom         [8]byte
	discrepancy byte

	mu sync.Mutex
}

// Init creates a session bound to transport. The transport's Init is
// invoked exactly once.
func Init(transport Transport) (*Session, error) {
	if transport == nil {
		panic("onewire: transport must not be nil")
	}
	if err := transport.Init(); err != nil {
		return nil, fmt.Errorf("%w: transport init: %v", ErrGeneric, err)
	}
	s := &Session{
		transport:   transport,
		discrepancy: discrepancyFirst,
	}
	return s, nil
}

// Deinit releases the session's transport. It is idempotent: calling it
// on a nil session, or one whose transport has already been released,
// is a no-op.
func (s *Session) Deinit() error {
	if s == nil || s.transport == nil {
		return nil
	}
	err := s.transport.Deinit()
	s.transport = nil
	if err != nil {
		return fmt.Errorf("%w: transport deinit: %v", ErrGeneric, err)
	}
	return nil
}

// Protect acquires the session mutex when lock is true. It is a no-op
// otherwise. Pair with Unprotect to compose a sequence of _raw calls
// under a single critical section (e.g. the batch search helpers).
func (s *Session) Protect(lock bool) error {
	if lock {
		s.mu.Lock()
	}
	return nil
}

// Unprotect releases the session mutex when lock is true. It is a
// no-op otherwise.
func (s *Session) Unprotect(lock bool) error {
	if lock {
		s.mu.Unlock()
	}
	return nil
}
