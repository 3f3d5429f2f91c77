package consult

import "github.com/pkg/errors"

var (
	// ErrProtocolViolation is returned when a peer's response deviates from
	// the CONSULT wire protocol: a bad echo, a frame that doesn't start with
	// 0xFF, a handshake that never produces 0x10, or a halt sequence that
	// produces something other than 0xFF or 0xCF.
	ErrProtocolViolation = errors.New("consult: protocol violation")

	// ErrShortFrame is returned when a response frame's length doesn't
	// match what the requesting operation requires to parse it.
	ErrShortFrame = errors.New("consult: short frame")

	// ErrMalformedLog is returned when a replay log line doesn't match the
	// "(R|W) <hex bytes>" grammar.
	ErrMalformedLog = errors.New("consult: malformed log line")

	// ErrLogExhausted is returned by a non-wrapping ReplayTransport when a
	// read or write has no more matching log data to draw from.
	ErrLogExhausted = errors.New("consult: replay log exhausted")

	// ErrEngineBusy is returned when an operation is attempted on a
	// ProtocolEngine while a stream handle holds exclusive ownership of it.
	ErrEngineBusy = errors.New("consult: engine is streaming")
)

// UnknownEnumError is returned when ParameterCoding or FaultCoding is asked
// to look up a value outside its closed domain.
type UnknownEnumError struct {
	Domain string
	Value  uint8
}

func (e *UnknownEnumError) Error() string {
	return errors.Errorf("consult: unknown %s: 0x%02x", e.Domain, e.Value).Error()
}
