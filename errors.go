package onewire

import "errors"

// Sentinel errors forming the closed error taxonomy. Callers classify a
// failure with errors.Is against one of these rather than inspecting
// error text.
var (
	// ErrGeneric is a catch-all for composite operations whose
	// sub-failures have already been surfaced to the caller.
	ErrGeneric = errors.New("onewire: generic failure")

	// ErrPresence means a reset was issued but no slave answered with
	// a presence pulse.
	ErrPresence = errors.New("onewire: no presence pulse detected")

	// ErrTxRx means the transport's TxRx exchange failed.
	ErrTxRx = errors.New("onewire: transport exchange failed")

	// ErrBaud means the transport's SetBaudrate call failed.
	ErrBaud = errors.New("onewire: baudrate change failed")

	// ErrNoDevice means the ROM search enumeration is complete (or the
	// bus is empty) — not itself a bus error.
	ErrNoDevice = errors.New("onewire: no device found")
)
