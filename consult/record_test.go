package consult_test

import (
	"bytes"
	"testing"

	"github.com/jonsim/openconsult/consult"
)

func TestRecordTransportCompaction(t *testing.T) {
	frame := []byte{
		0x00, 0x21, 0x14, 0x80, 0x20, 0x00, 0x00, 0x3F, 0x80, 0x80, 0xE2,
		0x20, 0x00, 0x00, 0x28, 0xFF, 0xFF, 0x41, 0x41, 0x35, 0x30, 0x32,
	}
	inner := newTestTransport(append([]byte{0x10, 0x2F, 0xFF, 0x16}, append(frame, 0xCF)...))

	var sink bytes.Buffer
	recorder := consult.NewRecordTransport(inner, &sink, nil)

	engine, err := consult.NewProtocolEngine(recorder, nil)
	if err != nil {
		t.Fatalf("constructing engine: %v", err)
	}
	if _, err := engine.ReadECUMetadata(); err != nil {
		t.Fatalf("ReadECUMetadata: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "W ffffef\nR 10\nW d0\nR 2f\nW f0\n" +
		"R ff16002114802000003f8080e220000028ffff4141353032\n" +
		"W 30\nR cf\n"
	if got := sink.String(); got != want {
		t.Fatalf("got log:\n%q\nwant:\n%q", got, want)
	}
}

func TestRecordReplayRoundTrip(t *testing.T) {
	frame := []byte{
		0x00, 0x21, 0x14, 0x80, 0x20, 0x00, 0x00, 0x3F, 0x80, 0x80, 0xE2,
		0x20, 0x00, 0x00, 0x28, 0xFF, 0xFF, 0x41, 0x41, 0x35, 0x30, 0x32,
	}
	inner := newTestTransport(append([]byte{0x10, 0x2F, 0xFF, 0x16}, append(frame, 0xCF)...))

	var sink bytes.Buffer
	recorder := consult.NewRecordTransport(inner, &sink, nil)
	engine, err := consult.NewProtocolEngine(recorder, nil)
	if err != nil {
		t.Fatalf("constructing engine: %v", err)
	}
	want, err := engine.ReadECUMetadata()
	if err != nil {
		t.Fatalf("ReadECUMetadata: %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	replay, err := consult.NewReplayTransport(bytes.NewReader(sink.Bytes()), false, nil)
	if err != nil {
		t.Fatalf("NewReplayTransport: %v", err)
	}
	replayedEngine, err := consult.NewProtocolEngine(replay, nil)
	if err != nil {
		t.Fatalf("constructing replayed engine: %v", err)
	}
	got, err := replayedEngine.ReadECUMetadata()
	if err != nil {
		t.Fatalf("replayed ReadECUMetadata: %v", err)
	}

	if got.PartNumber != want.PartNumber {
		t.Fatalf("got part number %q, want %q", got.PartNumber, want.PartNumber)
	}
}
