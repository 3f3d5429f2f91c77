package consult_test

import (
	"testing"

	"github.com/jonsim/openconsult/consult"
)

func TestFaultCodeFromIDRoundTrip(t *testing.T) {
	codes := []consult.FaultCode{
		consult.CrankshaftPositionSensorCircuit,
		consult.NoMalfunction,
		consult.AtTemperatureSensor,
	}
	for _, c := range codes {
		got, err := consult.FaultCodeFromID(c.ID())
		if err != nil {
			t.Fatalf("FaultCodeFromID(%d): %v", c.ID(), err)
		}
		if got != c {
			t.Errorf("got %v, want %v", got, c)
		}
	}
}

func TestFaultCodeFromIDUnknown(t *testing.T) {
	if _, err := consult.FaultCodeFromID(0xFE); err == nil {
		t.Fatal("expected an error for an unregistered fault code ID")
	}
}

func TestFaultCodeNameAndDescription(t *testing.T) {
	name, err := consult.NoMalfunction.Name()
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "No malfunction" {
		t.Fatalf("got %q, want %q", name, "No malfunction")
	}

	desc, err := consult.FuelPump.Description()
	if err != nil {
		t.Fatalf("Description: %v", err)
	}
	if desc != "" {
		t.Fatalf("got %q, want empty description", desc)
	}
}
