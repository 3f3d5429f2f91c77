package consult_test

import (
	"testing"

	"github.com/jonsim/openconsult/consult"
)

func TestEngineParameterDecode(t *testing.T) {
	cases := []struct {
		name  string
		param consult.EngineParameter
		data  []byte
		want  float64
	}{
		{"EngineRPM", consult.EngineRPM, []byte{0x01, 0x59}, 4312.5},
		{"LHMafVoltage", consult.LHMafVoltage, []byte{0x02, 0x69}, 3.085},
		{"CoolantTemperature", consult.CoolantTemperature, []byte{0x25}, -13},
		{"LHO2SensorVoltage", consult.LHO2SensorVoltage, []byte{0x99}, 1.53},
		{"VehicleSpeed", consult.VehicleSpeed, []byte{0x1C}, 56},
		{"BatteryVoltage", consult.BatteryVoltage, []byte{0x97}, 12.08},
		{"ThrottlePosition", consult.ThrottlePosition, []byte{0x99}, 3.06},
		{"IgnitionTiming", consult.IgnitionTiming, []byte{0x73}, -5},
		{"AACValve", consult.AACValve, []byte{0x75}, 58.5},
		{"LHAirFuelAlpha", consult.LHAirFuelAlpha, []byte{0x40}, 64},
		{"LHInjectionTiming", consult.LHInjectionTiming, []byte{0x11, 0xA2}, 0.04514},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := consult.EngineParameterDecode(c.param, c.data)
			if err != nil {
				t.Fatalf("EngineParameterDecode: %v", err)
			}
			if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestEngineParameterCommandWidthInvariant(t *testing.T) {
	for p := consult.EngineRPM; p <= consult.DigitalBitRegister3; p++ {
		cmd, err := consult.EngineParameterCommand(p)
		if err != nil {
			t.Fatalf("EngineParameterCommand(%v): %v", p, err)
		}
		width, err := consult.EngineParameterByteWidth(p)
		if err != nil {
			t.Fatalf("EngineParameterByteWidth(%v): %v", p, err)
		}
		if len(cmd) != width {
			t.Errorf("parameter %v: command length %d != byte width %d", p, len(cmd), width)
		}
	}
}

func TestEngineParameterUnknownValue(t *testing.T) {
	if _, err := consult.EngineParameterName(consult.EngineParameter(999)); err == nil {
		t.Fatal("expected an error for an out-of-range EngineParameter")
	}
}

func TestParseEngineParameterRoundTrip(t *testing.T) {
	id, err := consult.EngineParameterID(consult.EngineRPM)
	if err != nil {
		t.Fatalf("EngineParameterID: %v", err)
	}
	if id != "engine_speed_rpm" {
		t.Fatalf("got id %q, want engine_speed_rpm", id)
	}
	p, err := consult.ParseEngineParameter(id)
	if err != nil {
		t.Fatalf("ParseEngineParameter: %v", err)
	}
	if p != consult.EngineRPM {
		t.Fatalf("got %v, want EngineRPM", p)
	}
}
