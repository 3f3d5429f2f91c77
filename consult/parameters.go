package consult

import "github.com/pkg/errors"

// EngineParameter identifies one of the closed set of live engine signals
// that can be requested from the ECM. For engines with a single cylinder
// bank, only the LH_ variants are meaningful.
type EngineParameter int

const (
	EngineRPM EngineParameter = iota
	LHMafVoltage
	RHMafVoltage
	CoolantTemperature
	LHO2SensorVoltage
	RHO2SensorVoltage
	VehicleSpeed
	BatteryVoltage
	ThrottlePosition
	FuelTemperature
	IntakeAirTemperature
	ExhaustGasTemperature
	LHInjectionTiming
	RHInjectionTiming
	IgnitionTiming
	AACValve
	LHAirFuelAlpha
	RHAirFuelAlpha
	LHAirFuelAlphaSelfLearn
	RHAirFuelAlphaSelfLearn
	MrFcMnt
	WasteGateSolenoid
	TurboBoostSensor
	EngineMount
	PositionCounter
	PurgeControlValve
	TankFuelTemperature
	FpcmDrVoltage
	FuelGaugeVoltage
	DigitalBitRegister1
	DigitalBitRegister2
	DigitalBitRegister3
)

// Register IDs as exposed over the wire. Several are reserved by the ECM
// but have no EngineParameter wired to them yet (0x30-0x39, 0x3A, 0x4A,
// 0x52, 0x53); they are listed for documentation but never referenced.
const (
	regCrankshaftRPMMSB      byte = 0x00
	regCrankshaftRPMLSB      byte = 0x01
	regLHMafVoltageMSB       byte = 0x04
	regLHMafVoltageLSB       byte = 0x05
	regRHMafVoltageMSB       byte = 0x06
	regRHMafVoltageLSB       byte = 0x07
	regCoolantTemp           byte = 0x08
	regLHO2SensorVoltage     byte = 0x09
	regRHO2SensorVoltage     byte = 0x0A
	regVehicleSpeed          byte = 0x0B
	regBatteryVoltage        byte = 0x0C
	regThrottlePosition      byte = 0x0D
	regFuelTemp              byte = 0x0F
	regIntakeAirTemp         byte = 0x11
	regExhaustGasTemp        byte = 0x12
	regDigitalBitRegister1   byte = 0x13
	regLHInjectionTimingMSB  byte = 0x14
	regLHInjectionTimingLSB  byte = 0x15
	regIgnitionTiming        byte = 0x16
	regAACValve              byte = 0x17
	regLHAfAlpha             byte = 0x1A
	regRHAfAlpha             byte = 0x1B
	regLHAfAlphaSelfLearn    byte = 0x1C
	regRHAfAlphaSelfLearn    byte = 0x1D
	regDigitalBitRegister2   byte = 0x1E
	regDigitalBitRegister3   byte = 0x1F
	regMrFcMnt               byte = 0x21
	regRHInjectionTimingMSB  byte = 0x22
	regRHInjectionTimingLSB  byte = 0x23
	regPurgeControlValve     byte = 0x25
	regTankFuelTemp          byte = 0x26
	regFpcmDrVoltage         byte = 0x27
	regWasteGateSolenoid     byte = 0x28
	regTurboBoostSensor      byte = 0x29
	regEngineMount           byte = 0x2A
	regPositionCounter       byte = 0x2E
	regFuelGaugeVoltage      byte = 0x2F
)

type paramInfo struct {
	id          string
	name        string
	description string
	unit        Unit
	registers   []byte
	decode      func(data []byte) float64
}

var engineParameterTable = map[EngineParameter]paramInfo{
	EngineRPM: {
		"engine_speed_rpm", "Engine speed (RPM)",
		"The engine speed computed from the REF signal (180 degree signal) of the camshaft position sensor.",
		RPM, []byte{regCrankshaftRPMMSB, regCrankshaftRPMLSB},
		func(d []byte) float64 { return float64(be16(d)) * 12.5 },
	},
	LHMafVoltage: {
		"maf_v", "Mass Air Flow meter voltage (V)",
		"The signal voltage of the mass air flow sensor.",
		Volts, []byte{regLHMafVoltageMSB, regLHMafVoltageLSB},
		func(d []byte) float64 { return float64(be16(d)) * 0.005 },
	},
	RHMafVoltage: {
		"rh_maf_v", "Mass Air Flow meter voltage (right-hand bank) (V)",
		"The signal voltage of the right-hand mass air flow sensor.",
		Volts, []byte{regRHMafVoltageMSB, regRHMafVoltageLSB},
		func(d []byte) float64 { return float64(be16(d)) * 0.005 },
	},
	CoolantTemperature: {
		"coolant_temp_c", "Engine coolant temperature (deg C)",
		"The temperature of the engine coolant.",
		DegreesC, []byte{regCoolantTemp},
		func(d []byte) float64 { return float64(d[0]) - 50 },
	},
	LHO2SensorVoltage: {
		"o2_sensor_v", "O2 Sensor voltage (V)",
		"The signal voltage of the heated oxygen sensor 1 (front).",
		Volts, []byte{regLHO2SensorVoltage},
		func(d []byte) float64 { return float64(d[0]) * 0.01 },
	},
	RHO2SensorVoltage: {
		"rh_o2_sensor_v", "O2 Sensor voltage (right-hand bank) (V)",
		"The signal voltage of the right-hand heated oxygen sensor 1 (front).",
		Volts, []byte{regRHO2SensorVoltage},
		func(d []byte) float64 { return float64(d[0]) * 0.01 },
	},
	VehicleSpeed: {
		"vehicle_speed_kmph", "Vehicle speed (km/h)",
		"The vehicle speed.",
		KMH, []byte{regVehicleSpeed},
		func(d []byte) float64 { return float64(d[0]) * 2 },
	},
	BatteryVoltage: {
		"battery_v", "Battery voltage (V)",
		"The power supply voltage of the ECM.",
		Volts, []byte{regBatteryVoltage},
		func(d []byte) float64 { return float64(d[0]) * 0.08 },
	},
	ThrottlePosition: {
		"throttle_position_v", "Throttle Position Sensor (V)",
		"The signal voltage of the throttle position sensor.",
		Volts, []byte{regThrottlePosition},
		func(d []byte) float64 { return float64(d[0]) * 0.02 },
	},
	FuelTemperature: {
		"fuel_temp_c", "Fuel temperature (deg C)",
		"The temperature of the fuel in the fuel rail.",
		DegreesC, []byte{regFuelTemp},
		func(d []byte) float64 { return float64(d[0]) - 50 },
	},
	IntakeAirTemperature: {
		"intake_air_temp_c", "Intake air temperature (deg C)",
		"The temperature of the intake air.",
		DegreesC, []byte{regIntakeAirTemp},
		func(d []byte) float64 { return float64(d[0]) - 50 },
	},
	ExhaustGasTemperature: {
		"exhaust_gas_temp_v", "Exhaust gas temperature voltage (V)",
		"The signal voltage of the exhaust gas temperature sensor.",
		Volts, []byte{regExhaustGasTemp},
		func(d []byte) float64 { return float64(d[0]) * 0.02 },
	},
	LHInjectionTiming: {
		"injection_timing_s", "Injection timing (S)",
		"The actual fuel injection pulse width, computed by the ECM.",
		Seconds, []byte{regLHInjectionTimingMSB, regLHInjectionTimingLSB},
		func(d []byte) float64 { return float64(be16(d)) * 1e-5 },
	},
	RHInjectionTiming: {
		"rh_injection_timing_s", "Injection timing (right-hand bank) (S)",
		"The actual fuel injection pulse width of the right-hand injectors, computed by the ECM.",
		Seconds, []byte{regRHInjectionTimingMSB, regRHInjectionTimingLSB},
		func(d []byte) float64 { return float64(be16(d)) * 1e-5 },
	},
	IgnitionTiming: {
		"ignition_timing_btdc", "Ignition timing (deg BTDC)",
		"The ignition timing.",
		DegreesBTDC, []byte{regIgnitionTiming},
		func(d []byte) float64 { return 110.0 - float64(d[0]) },
	},
	AACValve: {
		"aac_valve_pct", "Idle air control valve (%)",
		"The IACV-AAC valve control value signal.",
		Percent, []byte{regAACValve},
		func(d []byte) float64 { return float64(d[0]) / 2.0 },
	},
	LHAirFuelAlpha: {
		"af_alpha_pct", "Air/Fuel alpha (%)",
		"The mean value of the air-fuel ratio feedback correction factor per cycle.",
		Percent, []byte{regLHAfAlpha},
		func(d []byte) float64 { return float64(d[0]) },
	},
	RHAirFuelAlpha: {
		"rh_af_alpha_pct", "Air/Fuel alpha (right-hand bank) (%)",
		"The mean value of the air-fuel ratio feedback correction factor per cycle for the right-hand cylinder bank.",
		Percent, []byte{regRHAfAlpha},
		func(d []byte) float64 { return float64(d[0]) },
	},
	LHAirFuelAlphaSelfLearn: {
		"af_alpha_selflearn_pct", "Air/Fuel alpha (self learn) (%)",
		"The mean value of the air-fuel ratio feedback correction factor per cycle, as used for the air-fuel ratio learning control.",
		Percent, []byte{regLHAfAlphaSelfLearn},
		func(d []byte) float64 { return float64(d[0]) },
	},
	RHAirFuelAlphaSelfLearn: {
		"rh_af_alpha_selflearn_pct", "Air/Fuel alpha (right-hand bank) (self learn) (%)",
		"The mean value of the air-fuel ratio feedback correction factor per cycle, as used for the air-fuel ratio learning control for the right-hand cylinder bank.",
		Percent, []byte{regRHAfAlphaSelfLearn},
		func(d []byte) float64 { return float64(d[0]) },
	},
	MrFcMnt: {
		"mr_fc_mnt", "Air/Fuel mixture ratio feedback control (rich/lean)",
		"The front heated oxygen sensor signal during air-fuel ratio feedback control. May be 'RICH' or 'LEAN'. 'RICH' means the mixture became rich, and control is being affected towards a leaner mixture. 'LEAN' means the mixture became lean, and control is being affected towards a rich mixture.",
		RichLean, []byte{regMrFcMnt},
		func(d []byte) float64 { return float64(d[0]) },
	},
	WasteGateSolenoid: {
		"waste_gate_solenoid_pct", "Waste gate solenoid (%)",
		"The wastegate valve control solenoid signal.",
		Percent, []byte{regWasteGateSolenoid},
		func(d []byte) float64 { return float64(d[0]) },
	},
	TurboBoostSensor: {
		"turbo_boost_sensor_v", "Turbo boost sensor (V)",
		"Approximate: scaling is a guess based on the other single-byte mV register scalings.",
		Volts, []byte{regTurboBoostSensor},
		func(d []byte) float64 { return float64(d[0]) * 0.02 },
	},
	EngineMount: {
		"engine_mount", "Engine mount (on/off)",
		"Tracks an unknown quantity.",
		OnOff, []byte{regEngineMount},
		func(d []byte) float64 { return float64(d[0]) },
	},
	PositionCounter: {
		"position_counter", "Position Counter (count)",
		"Tracks an unknown quantity.",
		Count, []byte{regPositionCounter},
		func(d []byte) float64 { return float64(d[0]) },
	},
	PurgeControlValve: {
		"purge_control_valve_step", "EVAP Purge Volume Control Valve (step)",
		"Tracks an unknown quantity.",
		Steps, []byte{regPurgeControlValve},
		func(d []byte) float64 { return float64(d[0]) },
	},
	TankFuelTemperature: {
		"tank_fuel_temp_c", "Tank fuel temperature (deg C)",
		"The temperature of the fuel in the fuel tank.",
		DegreesC, []byte{regTankFuelTemp},
		func(d []byte) float64 { return float64(d[0]) - 50 },
	},
	FpcmDrVoltage: {
		"fpcm_dr_v", "Fuel Pump Control Module",
		"Approximate: scaling is a guess based on the other single-byte mV register scalings.",
		Volts, []byte{regFpcmDrVoltage},
		func(d []byte) float64 { return float64(d[0]) * 0.02 },
	},
	FuelGaugeVoltage: {
		"fuel_gauge_v", "Fuel gauge voltage (V)",
		"The signal voltage of the fuel gauge. Approximate: scaling is a guess based on the other single-byte mV register scalings.",
		Volts, []byte{regFuelGaugeVoltage},
		func(d []byte) float64 { return float64(d[0]) * 0.02 },
	},
	DigitalBitRegister1: {
		"digital_bit_register_1", "Digital Bit Register 1",
		"",
		Raw, []byte{regDigitalBitRegister1},
		func(d []byte) float64 { return float64(d[0]) },
	},
	DigitalBitRegister2: {
		"digital_bit_register_2", "Digital Bit Register 2",
		"",
		Raw, []byte{regDigitalBitRegister2},
		func(d []byte) float64 { return float64(d[0]) },
	},
	DigitalBitRegister3: {
		"digital_bit_register_3", "Digital Bit Register 3",
		"",
		Raw, []byte{regDigitalBitRegister3},
		func(d []byte) float64 { return float64(d[0]) },
	},
}

func be16(d []byte) int {
	return (int(d[0]) << 8) | int(d[1])
}

// EngineParameterCommand returns the command byte sequence necessary to
// query parameter from the ECU.
func EngineParameterCommand(parameter EngineParameter) ([]byte, error) {
	info, ok := engineParameterTable[parameter]
	if !ok {
		return nil, &UnknownEnumError{Domain: "engine parameter", Value: uint8(parameter)}
	}
	cmd := make([]byte, len(info.registers))
	copy(cmd, info.registers)
	return cmd, nil
}

// EngineParameterByteWidth returns the number of response bytes a
// parameter's decode function consumes.
func EngineParameterByteWidth(parameter EngineParameter) (int, error) {
	info, ok := engineParameterTable[parameter]
	if !ok {
		return 0, &UnknownEnumError{Domain: "engine parameter", Value: uint8(parameter)}
	}
	return len(info.registers), nil
}

// EngineParameterDecode decodes data, as returned when querying the ECU,
// into a real value in the unit returned by EngineParameterUnit.
func EngineParameterDecode(parameter EngineParameter, data []byte) (float64, error) {
	info, ok := engineParameterTable[parameter]
	if !ok {
		return 0, &UnknownEnumError{Domain: "engine parameter", Value: uint8(parameter)}
	}
	if len(data) != len(info.registers) {
		return 0, ErrShortFrame
	}
	return info.decode(data), nil
}

// EngineParameterID returns the stable lowercase identifier used to key
// this parameter in JSON output.
func EngineParameterID(parameter EngineParameter) (string, error) {
	info, ok := engineParameterTable[parameter]
	if !ok {
		return "", &UnknownEnumError{Domain: "engine parameter", Value: uint8(parameter)}
	}
	return info.id, nil
}

// EngineParameterName returns a short English name for parameter.
func EngineParameterName(parameter EngineParameter) (string, error) {
	info, ok := engineParameterTable[parameter]
	if !ok {
		return "", &UnknownEnumError{Domain: "engine parameter", Value: uint8(parameter)}
	}
	return info.name, nil
}

// EngineParameterDescription returns a longer English description of
// parameter, or the empty string if none is available.
func EngineParameterDescription(parameter EngineParameter) (string, error) {
	info, ok := engineParameterTable[parameter]
	if !ok {
		return "", &UnknownEnumError{Domain: "engine parameter", Value: uint8(parameter)}
	}
	return info.description, nil
}

// EngineParameterUnit returns the Unit parameter's decoded value is
// expressed in.
func EngineParameterUnit(parameter EngineParameter) (Unit, error) {
	info, ok := engineParameterTable[parameter]
	if !ok {
		return "", &UnknownEnumError{Domain: "engine parameter", Value: uint8(parameter)}
	}
	return info.unit, nil
}

// ParseEngineParameter looks up the EngineParameter whose JSON id matches
// id exactly, for translating command-line/config input into the enum.
func ParseEngineParameter(id string) (EngineParameter, error) {
	for p, info := range engineParameterTable {
		if info.id == id {
			return p, nil
		}
	}
	return 0, errors.Errorf("consult: unknown engine parameter id %q", id)
}
