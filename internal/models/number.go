package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat decodes from a JSON number or a numeric string. Empty strings
// and null decode to zero.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw, err := numericText(data)
	if err != nil {
		return err
	}
	if raw == "" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", raw)
	}
	*f = FlexFloat(value)
	return nil
}

// FlexInt decodes from a JSON number or a numeric string, truncating
// fractional values.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt(int(f))
	return nil
}

// WholeInt decodes from a JSON number or a numeric string and rejects
// values with a fractional part.
type WholeInt int

// UnmarshalJSON implements json.Unmarshaler.
func (i *WholeInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	if math.Trunc(float64(f)) != float64(f) || math.Abs(float64(f)) > math.MaxInt32 {
		return fmt.Errorf("expected a whole number, got %v", float64(f))
	}
	*i = WholeInt(int(f))
	return nil
}

// RawFee preserves a submitted fee as text, whatever its JSON type. Legacy
// clients send numbers, strings, or nothing at all.
type RawFee struct {
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawFee) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		r.Value = nil
		return nil
	}
	var text string
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
	} else {
		text = string(trimmed)
	}
	r.Value = &text
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r RawFee) MarshalJSON() ([]byte, error) {
	if r.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*r.Value)
}

func numericText(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}
	return string(trimmed), nil
}
