package onewire

// SerialTransport drives a real 1-Wire bus by abusing a UART's own bit
// timing: a slow (9600 baud) octet holds the line low long enough for a
// reset pulse, and a fast (115200 baud) octet holds it low for exactly
// one 1-Wire time slot. Session never touches the serial port directly —
// it only ever asks a Transport to change baudrate or exchange octets —
// so this file is the one place that encoding is wired to real hardware.
//
// For details see:
// Using an UART to Implement a 1-Wire Bus Master (http://www.maximintegrated.com/en/app-notes/index.mvp/id/214)

import (
	"fmt"

	"go.bug.st/serial"
)

// SerialTransport implements Transport over a physical or USB-converter
// UART using go.bug.st/serial. It is not safe for concurrent use by
// itself — callers get that guarantee from the Session built on top of
// it, which serializes every Transport call behind its own mutex.
type SerialTransport struct {
	device string
	port   serial.Port
	mode   serial.Mode
}

// NewSerialTransport opens device (e.g. "/dev/ttyUSB0" or "COM3") at
// 115200-8-N-1 and asserts DTR, matching the line conditioning the
// bit-engine's 115200-baud mode expects between reset pulses.
func NewSerialTransport(device string) (*SerialTransport, error) {
	t := &SerialTransport{
		device: device,
		mode: serial.Mode{
			BaudRate: baudBit,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
	}
	p, err := serial.Open(device, &t.mode)
	if err != nil {
		return nil, fmt.Errorf("onewire: open %s: %w", device, err)
	}
	t.port = p
	if err := p.SetDTR(true); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("onewire: set DTR on %s: %w", device, err)
	}
	return t, nil
}

// Device returns the serial device path or name this transport opened.
func (t *SerialTransport) Device() string {
	return t.device
}

// Init satisfies Transport. The port is already open and configured by
// NewSerialTransport, so this is a no-op kept for interface symmetry
// with transports that defer opening until Init.
func (t *SerialTransport) Init() error {
	return nil
}

// Deinit closes the underlying serial port.
func (t *SerialTransport) Deinit() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	if err != nil {
		return fmt.Errorf("onewire: close %s: %w", t.device, err)
	}
	return nil
}

// SetBaudrate reconfigures the open port's baudrate in place.
func (t *SerialTransport) SetBaudrate(baud int) error {
	t.mode.BaudRate = baud
	if err := t.port.SetMode(&t.mode); err != nil {
		return fmt.Errorf("onewire: set %d baud on %s: %w", baud, t.device, err)
	}
	return nil
}

// TxRx clears any stale buffered data, then writes tx and reads back
// exactly len(tx) octets into rx. Clearing first keeps a slave that
// jittered its timing on the previous exchange from bleeding a stray
// octet into this one.
func (t *SerialTransport) TxRx(tx, rx []byte) error {
	if len(tx) != len(rx) {
		panic("onewire: tx and rx must have the same length")
	}
	if err := t.clear(); err != nil {
		return err
	}
	if _, err := t.port.Write(tx); err != nil {
		return fmt.Errorf("onewire: write to %s: %w", t.device, err)
	}
	if err := t.readFull(rx); err != nil {
		return err
	}
	return nil
}

func (t *SerialTransport) clear() error {
	if err := t.port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("onewire: reset output buffer on %s: %w", t.device, err)
	}
	if err := t.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("onewire: reset input buffer on %s: %w", t.device, err)
	}
	return nil
}

// readFull reads into buf until it is full, since serial.Port.Read may
// return fewer bytes than requested on a single call.
func (t *SerialTransport) readFull(buf []byte) error {
	for read := 0; read < len(buf); {
		n, err := t.port.Read(buf[read:])
		if err != nil {
			return fmt.Errorf("onewire: read from %s: %w", t.device, err)
		}
		if n == 0 {
			return fmt.Errorf("onewire: read from %s: %w", t.device, ErrTxRx)
		}
		read += n
	}
	return nil
}
