package consult

import (
	"fmt"
	"strings"
)

// ECUMetadata is the ECU's self-reported identity, decoded from a fixed
// 22-byte frame.
type ECUMetadata struct {
	PartNumber string
}

func newECUMetadata(frame []byte) (*ECUMetadata, error) {
	if len(frame) != 22 {
		return nil, ErrShortFrame
	}
	return &ECUMetadata{
		PartNumber: fmt.Sprintf("%02X%02X 23710-%X%02X%02X",
			frame[2], frame[3], frame[19], frame[20], frame[21]),
	}, nil
}

// JSON renders the metadata as a two-space-indented JSON object.
func (m *ECUMetadata) JSON() string {
	return fmt.Sprintf("{\n  \"part_number\": \"%s\"\n}", m.PartNumber)
}

// FaultCodeData pairs a single observed FaultCode with how many engine
// starts have elapsed since it was last detected.
type FaultCodeData struct {
	Code                FaultCode
	StartsSinceObserved uint8
}

func newFaultCodeData(pair []byte) (*FaultCodeData, error) {
	code, err := FaultCodeFromID(pair[0])
	if err != nil {
		return nil, err
	}
	return &FaultCodeData{Code: code, StartsSinceObserved: pair[1]}, nil
}

func (d *FaultCodeData) writeJSON(sb *strings.Builder, indent string) error {
	name, err := d.Code.Name()
	if err != nil {
		return err
	}
	desc, err := d.Code.Description()
	if err != nil {
		return err
	}
	sb.WriteString(indent + "{\n")
	fmt.Fprintf(sb, "%s  \"code\": %d,\n", indent, d.Code.ID())
	fmt.Fprintf(sb, "%s  \"name\": %q,\n", indent, name)
	if desc == "" {
		fmt.Fprintf(sb, "%s  \"description\": null,\n", indent)
	} else {
		fmt.Fprintf(sb, "%s  \"description\": %q,\n", indent, desc)
	}
	fmt.Fprintf(sb, "%s  \"starts_since_observed\": %d\n", indent, d.StartsSinceObserved)
	sb.WriteString(indent + "}")
	return nil
}

// JSON renders a single fault code entry as a two-space-indented JSON
// object.
func (d *FaultCodeData) JSON() (string, error) {
	var sb strings.Builder
	if err := d.writeJSON(&sb, ""); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FaultCodes is the ordered set of fault codes the ECU reported in a
// single frame.
type FaultCodes struct {
	Codes []FaultCodeData
}

func newFaultCodes(frame []byte) (*FaultCodes, error) {
	if len(frame)%2 != 0 {
		return nil, ErrShortFrame
	}
	codes := make([]FaultCodeData, 0, len(frame)/2)
	for i := 0; i < len(frame); i += 2 {
		d, err := newFaultCodeData(frame[i : i+2])
		if err != nil {
			return nil, err
		}
		codes = append(codes, *d)
	}
	return &FaultCodes{Codes: codes}, nil
}

// JSON renders the fault code list as a two-space-indented JSON array.
func (f *FaultCodes) JSON() (string, error) {
	var sb strings.Builder
	sb.WriteString("[")
	separator := "\n"
	for i := range f.Codes {
		sb.WriteString(separator)
		if err := f.Codes[i].writeJSON(&sb, "  "); err != nil {
			return "", err
		}
		separator = ",\n"
	}
	sb.WriteString("\n]")
	return sb.String(), nil
}

// EngineParameters is a single decoded snapshot of a set of engine
// parameters, preserving the order they were requested in.
type EngineParameters struct {
	Order  []EngineParameter
	Values map[EngineParameter]float64
}

func newEngineParameters(params []EngineParameter, frame []byte) (*EngineParameters, error) {
	values := make(map[EngineParameter]float64, len(params))
	offset := 0
	for _, p := range params {
		width, err := EngineParameterByteWidth(p)
		if err != nil {
			return nil, err
		}
		if offset+width > len(frame) {
			return nil, ErrShortFrame
		}
		value, err := EngineParameterDecode(p, frame[offset:offset+width])
		if err != nil {
			return nil, err
		}
		values[p] = value
		offset += width
	}
	if offset != len(frame) {
		return nil, ErrShortFrame
	}
	order := make([]EngineParameter, len(params))
	copy(order, params)
	return &EngineParameters{Order: order, Values: values}, nil
}

// JSON renders the snapshot as a two-space-indented JSON object, with
// keys ordered as the parameters were originally requested and numeric
// values fixed at two decimal places.
func (p *EngineParameters) JSON() (string, error) {
	var sb strings.Builder
	sb.WriteString("{")
	separator := "\n"
	for _, param := range p.Order {
		id, err := EngineParameterID(param)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s  %q: %.2f", separator, id, p.Values[param])
		separator = ",\n"
	}
	sb.WriteString("\n}")
	return sb.String(), nil
}
