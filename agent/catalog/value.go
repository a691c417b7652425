package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindNumber
	KindText
)

// Value is a measured value that is either numeric or free text.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

func Text(v string) Value { return Value{kind: KindText, text: v} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) IsZero() bool { return v.kind == KindNone }

// String renders numbers in their shortest exact form, so 52 prints as "52"
// and 14.8 as "14.8".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Text(strconv.FormatBool(b))
	default:
		n, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("measurement value %s: %w", trimmed, err)
		}
		*v = Number(n)
	}
	return nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("measurement value must be a scalar, got kind %d at line %d", node.Kind, node.Line)
	}

	switch node.Tag {
	case "!!null":
		*v = Value{}
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("measurement value %q: %w", node.Value, err)
		}
		*v = Number(n)
	default:
		*v = Text(node.Value)
	}
	return nil
}
