// Package consult implements a host-side driver for the Nissan CONSULT-I
// diagnostic protocol: handshake, command/echo verification, framed
// streaming and halt, plus the parameter and fault-code tables needed to
// make sense of what comes back.
package consult

// ByteTransport is the minimal bytewise channel the protocol engine is
// built on. It carries no framing or timeout semantics of its own - those
// belong to ProtocolEngine.
type ByteTransport interface {
	// Read blocks until exactly len(p) bytes have been read into p, or an
	// error occurs. len(p) == 0 is legal and returns immediately.
	Read(p []byte) error

	// Write blocks until all of p has been written, or an error occurs.
	// A zero-length p is a no-op.
	Write(p []byte) error
}
