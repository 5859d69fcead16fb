package onewire

// Transport is the capability a Session borrows to drive the physical
// UART. An implementation is responsible for 8-N-1 framing and for
// supporting exactly the two baudrates the bit-engine uses: 9600 (reset
// pulse) and 115200 (bit/byte exchange).
//
// All four methods are synchronous and blocking; TxRx returns only
// once every requested octet has been clocked out and sampled back.
// The transport is assumed to sit on an open-drain, pulled-up 1-Wire
// line, so a slave driving the line low during the stop-bit window
// reads back as a low octet in rx.
type Transport interface {
	// Init configures the UART (typically 8-N-1, 115200 baud).
	Init() error

	// Deinit releases the UART.
	Deinit() error

	// SetBaudrate changes the UART baudrate. Only 9600 and 115200 are
	// ever requested by this package.
	SetBaudrate(baud int) error

	// TxRx performs one full-duplex exchange: tx and rx must have the
	// same length, and rx[i] is the octet sampled while tx[i] was
	// being driven onto the line.
	TxRx(tx, rx []byte) error
}

// Fixed wire baudrates. The bit-engine never uses any other value.
const (
	baudReset = 9600
	baudBit   = 115200
)
