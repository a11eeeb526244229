package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a numeric backend value. MySQL DECIMAL columns reach us as JSON
// strings ("19999.00") while computed columns are plain numbers, so both are
// accepted. Any other shape is a decoding error.
type Decimal struct {
	Value float64
	Valid bool
}

// NewDecimal builds a valid Decimal.
func NewDecimal(v float64) Decimal {
	return Decimal{Value: v, Valid: true}
}

// Float64 returns the value, zero when absent.
func (d Decimal) Float64() float64 {
	if !d.Valid {
		return 0
	}
	return d.Value
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Decimal{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode decimal: %w", err)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*d = Decimal{}
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("decode decimal: unexpected value %s", string(data))
	}
	*d = Decimal{Value: f, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

// Int is an integral backend value (ids, years, mileage, counts). Numeric
// strings are accepted because aggregate columns such as SUM() come back as
// DECIMAL strings.
type Int struct {
	Value int64
	Valid bool
}

// NewInt builds a valid Int.
func NewInt(v int64) Int {
	return Int{Value: v, Valid: true}
}

// Int64 returns the value, zero when absent.
func (i Int) Int64() int64 {
	if !i.Valid {
		return 0
	}
	return i.Value
}

// Float64 lets Int take part in numeric formatting.
func (i Int) Float64() float64 {
	return float64(i.Int64())
}

// String returns the decimal representation or "" when absent.
func (i Int) String() string {
	if !i.Valid {
		return ""
	}
	return strconv.FormatInt(i.Value, 10)
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(data []byte) error {
	var d Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode integer: %w", err)
	}
	if !d.Valid {
		*i = Int{}
		return nil
	}
	if d.Value != math.Trunc(d.Value) {
		return fmt.Errorf("decode integer: %s is not integral", string(data))
	}
	*i = Int{Value: int64(d.Value), Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(i.Value, 10)), nil
}

// ParseInt converts user input such as a form value into an Int.
func ParseInt(raw string) (Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Int{}, fmt.Errorf("empty integer")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Int{}, fmt.Errorf("parse integer %q: %w", raw, err)
	}
	return NewInt(v), nil
}
