package consult_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jonsim/openconsult/consult"
)

func TestReplayTransportRead(t *testing.T) {
	t.Run("WrapsWhenEnabled", func(t *testing.T) {
		replay, err := consult.NewReplayTransport(strings.NewReader("R 01\n"), true, nil)
		if err != nil {
			t.Fatalf("NewReplayTransport: %v", err)
		}

		got1 := make([]byte, 1)
		if err := replay.Read(got1); err != nil {
			t.Fatalf("Read(1): %v", err)
		}
		if got1[0] != 0x01 {
			t.Fatalf("got %x, want 01", got1)
		}

		got3 := make([]byte, 3)
		if err := replay.Read(got3); err != nil {
			t.Fatalf("Read(3): %v", err)
		}
		want := []byte{0x01, 0x01, 0x01}
		for i := range want {
			if got3[i] != want[i] {
				t.Fatalf("got %x, want %x", got3, want)
			}
		}
	})

	t.Run("FailsWhenExhaustedWithoutWrap", func(t *testing.T) {
		replay, err := consult.NewReplayTransport(strings.NewReader("R 01\n"), false, nil)
		if err != nil {
			t.Fatalf("NewReplayTransport: %v", err)
		}
		p := make([]byte, 2)
		if err := replay.Read(p); !errors.Is(err, consult.ErrLogExhausted) {
			t.Fatalf("got err %v, want ErrLogExhausted", err)
		}
	})
}

func TestReplayTransportCursorJumpAcrossKinds(t *testing.T) {
	replay, err := consult.NewReplayTransport(strings.NewReader("R 0102\nW 0304\nR 0506"), false, nil)
	if err != nil {
		t.Fatalf("NewReplayTransport: %v", err)
	}

	if err := replay.Write([]byte{0x03, 0x04}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := make([]byte, 2)
	if err := replay.Read(got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []byte{0x05, 0x06}
	if got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %x, want %x (the leading R 0102 should have been skipped)", got, want)
	}
}

func TestReplayTransportMalformedLog(t *testing.T) {
	_, err := consult.NewReplayTransport(strings.NewReader("X 01\n"), false, nil)
	if !errors.Is(err, consult.ErrMalformedLog) {
		t.Fatalf("got err %v, want ErrMalformedLog", err)
	}
}
