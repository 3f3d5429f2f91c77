package consult

import (
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

type logRecordKind byte

const (
	logRecordNone logRecordKind = iota
	logRecordRead
	logRecordWrite
)

// RecordTransport wraps another ByteTransport, appending a human-readable
// trace of every transaction to sink before forwarding the result. The
// produced log may later be fed to a ReplayTransport, and logs may be
// concatenated.
type RecordTransport struct {
	inner   ByteTransport
	sink    io.Writer
	current logRecordKind
	logger  Logger
}

// NewRecordTransport returns a RecordTransport snooping inner and writing
// its trace to sink.
func NewRecordTransport(inner ByteTransport, sink io.Writer, l Logger) *RecordTransport {
	if l == nil {
		l = NopLogger
	}
	return &RecordTransport{inner: inner, sink: sink, logger: l}
}

func (t *RecordTransport) appendEntry(kind logRecordKind, b []byte) error {
	if t.current != kind {
		if t.current != logRecordNone {
			if _, err := io.WriteString(t.sink, "\n"); err != nil {
				return errors.Wrap(err, "writing log separator")
			}
		}
		tag := "R "
		if kind == logRecordWrite {
			tag = "W "
		}
		if _, err := io.WriteString(t.sink, tag); err != nil {
			return errors.Wrap(err, "writing log entry tag")
		}
		t.current = kind
	}
	if _, err := io.WriteString(t.sink, hex.EncodeToString(b)); err != nil {
		return errors.Wrap(err, "writing log entry bytes")
	}
	return nil
}

// Read forwards to the inner transport and appends the bytes read to the
// trace.
func (t *RecordTransport) Read(p []byte) error {
	if err := t.inner.Read(p); err != nil {
		return err
	}
	logBytes(t.logger, p, "recorded read: ")
	return t.appendEntry(logRecordRead, p)
}

// Write forwards to the inner transport and appends the bytes written to
// the trace.
func (t *RecordTransport) Write(p []byte) error {
	if err := t.inner.Write(p); err != nil {
		return err
	}
	logBytes(t.logger, p, "recorded write: ")
	return t.appendEntry(logRecordWrite, p)
}

// Close emits a final newline to the sink if the trace doesn't already end
// with one, so that this log may be safely concatenated with another.
func (t *RecordTransport) Close() error {
	if t.current == logRecordNone {
		return nil
	}
	_, err := io.WriteString(t.sink, "\n")
	t.current = logRecordNone
	return errors.Wrap(err, "writing final log newline")
}
