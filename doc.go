// Package onewire implements a host-side 1-Wire bus master that tunnels
// 1-Wire timing over an ordinary asynchronous serial (UART) transport.
//
// Conceptual overview
//
// Properly configured with respect to baud rate, data bits, parity and
// stop bits, a 115,200 bit/s capable UART provides the input and output
// timing necessary to implement a 1-Wire master. The UART produces the
// 1-Wire reset pulse as well as read- and write-time slots: sending one
// octet clocks out one 1-Wire bit, and the sampled octet on the wire
// tells the master whether a slave pulled the line low. Switching the
// UART to 9600 baud for a single octet (0xF0) produces a correctly
// timed reset pulse and samples the slaves' presence response.
//
// The three layers, leaves first, are:
//
//   - Transport: a narrow capability — init, deinit, set baudrate,
//     synchronous full-duplex octet exchange — borrowed from an
//     external UART driver. See transport.go.
//   - Bit/byte engine: converts reset/read-bit/write-bit/read-byte/
//     write-byte into transport octet exchanges. See reset.go and
//     bitio.go.
//   - ROM search: the binary-tree enumeration that discovers every
//     slave on a shared bus. See search.go.
//
// A Session (session.go) ties these together: it borrows a Transport,
// and holds the ROM buffer and discrepancy pointer the search state
// machine needs across calls.
//
// For details on the technique, see Maxim Application Note 214, "Using
// a UART to Implement a 1-Wire Bus Master".
package onewire
