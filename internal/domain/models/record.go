package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field is one scalar entry of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a flat key/value record (customer or employee details) rendered
// generically. Entries keep the order the server sent them in; null and
// nested values are dropped because they have no flat rendering.
type Record struct {
	Fields []Field
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value under key as text, "" when absent.
func (r Record) String(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Field implements the report renderer's lookup.
func (r Record) Field(key string) (any, bool) {
	return r.Get(key)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode record: expected object, got %v", tok)
	}

	fields := make([]Field, 0, 8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode record key: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode record value %q: %w", key, err)
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' || bytes.Equal(trimmed, []byte("null")) {
			continue
		}

		var value any
		vdec := json.NewDecoder(bytes.NewReader(trimmed))
		vdec.UseNumber()
		if err := vdec.Decode(&value); err != nil {
			return fmt.Errorf("decode record value %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	r.Fields = fields
	return nil
}

// CustomerUpdate is the body of PUT /api/customer/info. Only these fields are
// editable.
type CustomerUpdate struct {
	Name    string `json:"Name"`
	Phone   string `json:"Phone"`
	Email   string `json:"Email"`
	Address string `json:"Address"`
	Gender  string `json:"Gender"`
}

// Validate trims input and requires a name.
func (u *CustomerUpdate) Validate() error {
	u.Name = strings.TrimSpace(u.Name)
	u.Phone = strings.TrimSpace(u.Phone)
	u.Email = strings.TrimSpace(u.Email)
	u.Address = strings.TrimSpace(u.Address)
	u.Gender = strings.TrimSpace(u.Gender)
	if u.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

// CustomerUpdateFrom seeds the edit form from a customer record.
func CustomerUpdateFrom(r Record) CustomerUpdate {
	return CustomerUpdate{
		Name:    r.String("Name"),
		Phone:   r.String("Phone"),
		Email:   r.String("Email"),
		Address: r.String("Address"),
		Gender:  r.String("Gender"),
	}
}
