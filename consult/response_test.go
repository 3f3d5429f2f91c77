package consult_test

import (
	"testing"

	"github.com/jonsim/openconsult/consult"
)

func TestEngineParametersJSONPreservesRequestOrder(t *testing.T) {
	// Request battery voltage before vehicle speed, the reverse of the
	// engine-parameter enum's declaration order, and assert the JSON key
	// order follows the request, not the enum.
	transport := newTestTransport([]byte{
		0x10,
		0xF3, 0x0B, // echo of ~0x0C (command), 0x0B (data, verbatim)
		0xFF, 0x02, 0xB4, 0x00,
		0xCF,
	})
	engine, err := consult.NewProtocolEngine(transport, nil)
	if err != nil {
		t.Fatalf("constructing engine: %v", err)
	}

	params := []consult.EngineParameter{consult.BatteryVoltage, consult.VehicleSpeed}
	result, err := engine.ReadEngineParameters(params)
	if err != nil {
		t.Fatalf("ReadEngineParameters: %v", err)
	}

	got, err := result.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	want := "{\n  \"battery_v\": 14.40,\n  \"vehicle_speed_kmph\": 0.00\n}"
	if got != want {
		t.Fatalf("got JSON:\n%s\nwant:\n%s", got, want)
	}
}

func TestFaultCodeDataJSONNullDescription(t *testing.T) {
	data := &consult.FaultCodeData{Code: consult.FuelPump, StartsSinceObserved: 2}
	got, err := data.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	want := "{\n  \"code\": 22,\n  \"name\": \"Fuel pump\",\n  \"description\": null,\n  \"starts_since_observed\": 2\n}"
	if got != want {
		t.Fatalf("got JSON:\n%s\nwant:\n%s", got, want)
	}
}

func TestECUMetadataJSON(t *testing.T) {
	frame := []byte{
		0x00, 0x21, 0x14, 0x80, 0x20, 0x00, 0x00, 0x3F, 0x80, 0x80, 0xE2,
		0x20, 0x00, 0x00, 0x28, 0xFF, 0xFF, 0x41, 0x41, 0x35, 0x30, 0x32,
	}
	transport := newTestTransport(append([]byte{0x10, 0x2F, 0xFF, 0x16}, append(frame, 0xCF)...))
	engine, err := consult.NewProtocolEngine(transport, nil)
	if err != nil {
		t.Fatalf("constructing engine: %v", err)
	}
	metadata, err := engine.ReadECUMetadata()
	if err != nil {
		t.Fatalf("ReadECUMetadata: %v", err)
	}
	want := "{\n  \"part_number\": \"1480 23710-353032\"\n}"
	if got := metadata.JSON(); got != want {
		t.Fatalf("got JSON:\n%s\nwant:\n%s", got, want)
	}
}
