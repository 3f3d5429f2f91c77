package consult

import "github.com/pkg/errors"

const (
	cmdReadECUMetadata byte = 0xD0
	cmdReadFaultCodes  byte = 0xD1

	byteGoAhead    byte = 0xF0
	byteHalt       byte = 0x30
	byteHaltAck    byte = 0xCF
	byteFrameStart byte = 0xFF
)

// handshakeScanLimit bounds the handshake's discard loop. The reference
// implementation spins unboundedly waiting for 0x10; an unbounded spin in a
// host process is indistinguishable from a hang, so this caps it.
const handshakeScanLimit = 4096

// ProtocolEngine drives the CONSULT-I client state machine over a
// ByteTransport: handshake, command/echo verification, go-ahead, framed
// streaming, and halt.
type ProtocolEngine struct {
	transport ByteTransport
	logger    Logger
	busy      bool
}

// NewProtocolEngine performs the CONSULT handshake over transport and
// returns a ready-to-use ProtocolEngine.
func NewProtocolEngine(transport ByteTransport, l Logger) (*ProtocolEngine, error) {
	if l == nil {
		l = NopLogger
	}
	e := &ProtocolEngine{transport: transport, logger: l}
	if err := e.handshake(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *ProtocolEngine) handshake() error {
	if err := e.transport.Write([]byte{0xFF, 0xFF, 0xEF}); err != nil {
		return errors.Wrap(err, "writing handshake bytes")
	}
	b := make([]byte, 1)
	for i := 0; i < handshakeScanLimit; i++ {
		if err := e.transport.Read(b); err != nil {
			return errors.Wrap(err, "reading handshake response")
		}
		if b[0] == 0x10 {
			e.logger.Debug("handshake complete")
			return nil
		}
	}
	return errors.Wrap(ErrProtocolViolation, "handshake never observed 0x10")
}

// calculateExpectedResponse mirrors the ECM's per-byte echo: command bytes
// echo back bitwise-complemented, data bytes echo back verbatim, in runs
// governed by commandWidth/dataWidth that alternate across the whole
// request. dataWidth < 0 means "remainder of the request".
func calculateExpectedResponse(request []byte, commandWidth, dataWidth int) []byte {
	if commandWidth < 0 {
		commandWidth = len(request)
	}
	if dataWidth < 0 {
		dataWidth = len(request) - commandWidth
	}
	isCommandByte := commandWidth > 0
	parsedCommandWidth := 0
	parsedDataWidth := 0
	response := make([]byte, len(request))
	copy(response, request)
	for i, b := range response {
		if isCommandByte {
			response[i] = ^b
			parsedCommandWidth++
			if parsedCommandWidth >= commandWidth {
				isCommandByte = dataWidth == 0
				parsedCommandWidth = 0
			}
		} else {
			parsedDataWidth++
			if parsedDataWidth >= dataWidth {
				isCommandByte = commandWidth > 0
				parsedDataWidth = 0
			}
		}
	}
	return response
}

func (e *ProtocolEngine) execute(request []byte, commandWidth, dataWidth int) error {
	expected := calculateExpectedResponse(request, commandWidth, dataWidth)
	logBytes(e.logger, request, "writing request: ")
	if err := e.transport.Write(request); err != nil {
		return errors.Wrap(err, "writing request")
	}
	response := make([]byte, len(expected))
	if err := e.transport.Read(response); err != nil {
		return errors.Wrap(err, "reading echo")
	}
	logBytes(e.logger, response, "read echo: ")
	for i := range expected {
		if response[i] != expected[i] {
			return errors.Wrap(ErrProtocolViolation, "echo did not match request")
		}
	}
	if err := e.transport.Write([]byte{byteGoAhead}); err != nil {
		return errors.Wrap(err, "writing go-ahead")
	}
	return nil
}

func (e *ProtocolEngine) readFrame() ([]byte, error) {
	header := make([]byte, 2)
	if err := e.transport.Read(header); err != nil {
		return nil, errors.Wrap(err, "reading frame header")
	}
	if header[0] != byteFrameStart {
		return nil, errors.Wrap(ErrProtocolViolation, "frame header did not start with 0xFF")
	}
	payload := make([]byte, int(header[1]))
	if err := e.transport.Read(payload); err != nil {
		return nil, errors.Wrap(err, "reading frame payload")
	}
	logBytes(e.logger, payload, "read frame: ")
	return payload, nil
}

func (e *ProtocolEngine) halt() error {
	if err := e.transport.Write([]byte{byteHalt}); err != nil {
		return errors.Wrap(err, "writing halt")
	}
	b := make([]byte, 1)
	for {
		if err := e.transport.Read(b); err != nil {
			return errors.Wrap(err, "reading halt response")
		}
		if b[0] == byteHaltAck {
			return nil
		}
		if b[0] != byteFrameStart {
			return errors.Wrap(ErrProtocolViolation, "unexpected byte while draining halt")
		}
		length := make([]byte, 1)
		if err := e.transport.Read(length); err != nil {
			return errors.Wrap(err, "reading drained frame length")
		}
		payload := make([]byte, int(length[0]))
		if err := e.transport.Read(payload); err != nil {
			return errors.Wrap(err, "reading drained frame payload")
		}
	}
}

// ReadECUMetadata requests and parses the ECU's identifying metadata.
func (e *ProtocolEngine) ReadECUMetadata() (*ECUMetadata, error) {
	if e.busy {
		return nil, ErrEngineBusy
	}
	if err := e.execute([]byte{cmdReadECUMetadata}, 1, -1); err != nil {
		return nil, err
	}
	frame, err := e.readFrame()
	if err != nil {
		return nil, err
	}
	if err := e.halt(); err != nil {
		return nil, err
	}
	return newECUMetadata(frame)
}

// ReadFaultCodes requests and parses the ECU's recently observed fault
// codes.
func (e *ProtocolEngine) ReadFaultCodes() (*FaultCodes, error) {
	if e.busy {
		return nil, ErrEngineBusy
	}
	if err := e.execute([]byte{cmdReadFaultCodes}, 1, -1); err != nil {
		return nil, err
	}
	frame, err := e.readFrame()
	if err != nil {
		return nil, err
	}
	if err := e.halt(); err != nil {
		return nil, err
	}
	return newFaultCodes(frame)
}

// ReadEngineParameters requests and parses a single snapshot of the given
// engine parameters, in request order.
func (e *ProtocolEngine) ReadEngineParameters(params []EngineParameter) (*EngineParameters, error) {
	if e.busy {
		return nil, ErrEngineBusy
	}
	request, err := buildParameterRequest(params)
	if err != nil {
		return nil, err
	}
	if err := e.execute(request, 1, 1); err != nil {
		return nil, err
	}
	frame, err := e.readFrame()
	if err != nil {
		return nil, err
	}
	if err := e.halt(); err != nil {
		return nil, err
	}
	return newEngineParameters(params, frame)
}

func buildParameterRequest(params []EngineParameter) ([]byte, error) {
	var request []byte
	for _, p := range params {
		cmd, err := EngineParameterCommand(p)
		if err != nil {
			return nil, err
		}
		request = append(request, cmd...)
	}
	return request, nil
}

// EngineParametersStream is a handle that exclusively owns a
// ProtocolEngine until it is released. Each call to GetFrame reads and
// parses one frame of the same requested parameters.
type EngineParametersStream struct {
	engine *ProtocolEngine
	params []EngineParameter
	halted bool
}

// StreamEngineParameters requests a live stream of the given engine
// parameters. The returned stream exclusively owns the engine until
// Release is called; no other engine operation may be invoked meanwhile.
func (e *ProtocolEngine) StreamEngineParameters(params []EngineParameter) (*EngineParametersStream, error) {
	if e.busy {
		return nil, ErrEngineBusy
	}
	request, err := buildParameterRequest(params)
	if err != nil {
		return nil, err
	}
	if err := e.execute(request, 1, 1); err != nil {
		return nil, err
	}
	e.busy = true
	return &EngineParametersStream{engine: e, params: params}, nil
}

// GetFrame blocks until the next frame is available and returns its
// parsed engine parameters.
func (s *EngineParametersStream) GetFrame() (*EngineParameters, error) {
	frame, err := s.engine.readFrame()
	if err != nil {
		return nil, err
	}
	return newEngineParameters(s.params, frame)
}

// Release halts the underlying stream and returns ownership of the engine
// to its caller. It is safe to call more than once.
func (s *EngineParametersStream) Release() error {
	if s.halted {
		return nil
	}
	s.halted = true
	s.engine.busy = false
	return s.engine.halt()
}
