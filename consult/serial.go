package consult

import (
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// SerialPort describes a serial port discovered on the host.
type SerialPort struct {
	PortName    string
	Description string
	IsUSB       bool
	VendorID    string
	ProductID   string
}

// AvailableSerialPorts returns every serial port the host currently
// exposes.
func AvailableSerialPorts() ([]SerialPort, error) {
	list, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "enumerating serial ports")
	}

	ports := make([]SerialPort, len(list))
	for i, p := range list {
		ports[i] = SerialPort{
			PortName:    p.Name,
			Description: p.Product,
			IsUSB:       p.IsUSB,
			VendorID:    p.VID,
			ProductID:   p.PID,
		}
	}
	return ports, nil
}

// DefaultBaudRate is used when a caller doesn't otherwise specify one.
// CONSULT-I ECMs communicate at 9600 baud.
const DefaultBaudRate = 9600

// SerialTransport implements ByteTransport over a physical serial port.
type SerialTransport struct {
	port   serial.Port
	logger Logger
}

// OpenSerialTransport opens portName 8-N-1 at baudRate (DefaultBaudRate if
// zero), flushes any stale input already buffered by the OS, and returns a
// ready-to-use SerialTransport.
func OpenSerialTransport(portName string, baudRate int, l Logger) (*SerialTransport, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if l == nil {
		l = NopLogger
	}
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening serial port %q", portName)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "flushing stale serial input")
	}
	return &SerialTransport{port: port, logger: l}, nil
}

// Read blocks until exactly len(p) bytes have been collected, looping over
// the underlying port's Read since it may return short reads.
func (t *SerialTransport) Read(p []byte) error {
	collected := 0
	for collected < len(p) {
		n, err := t.port.Read(p[collected:])
		if err != nil {
			return errors.Wrap(err, "reading from serial port")
		}
		if n == 0 {
			return errors.New("serial port closed mid-read")
		}
		collected += n
	}
	logBytes(t.logger, p, "serial read: ")
	return nil
}

// Write blocks until all of p has been accepted by the underlying port.
func (t *SerialTransport) Write(p []byte) error {
	written := 0
	for written < len(p) {
		n, err := t.port.Write(p[written:])
		if err != nil {
			return errors.Wrap(err, "writing to serial port")
		}
		written += n
	}
	logBytes(t.logger, p, "serial write: ")
	return nil
}

// Close releases the underlying serial port.
func (t *SerialTransport) Close() error {
	return errors.Wrap(t.port.Close(), "closing serial port")
}
