package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field names as used in error maps, JSON bodies and form inputs.
const (
	FieldName         = "name"
	FieldAddress      = "address"
	FieldCountryCode  = "countryCode"
	FieldMobileNumber = "mobileNumber"
	FieldAge          = "age"
)

var fieldOrder = []string{FieldName, FieldAddress, FieldCountryCode, FieldMobileNumber, FieldAge}

// Fields returns the record field names in form order.
func Fields() []string {
	out := make([]string, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// Record is one registration as entered in the form.
// Age is kept as typed; it is only interpreted during validation.
type Record struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	CountryCode  string `json:"countryCode"`
	MobileNumber string `json:"mobileNumber"`
	Age          string `json:"age"`
}

// EmptyRecord returns the blank form buffer.
func EmptyRecord() Record {
	return Record{}
}

// Value returns the raw value of the named field, or "" for unknown names.
func (r Record) Value(field string) string {
	switch field {
	case FieldName:
		return r.Name
	case FieldAddress:
		return r.Address
	case FieldCountryCode:
		return r.CountryCode
	case FieldMobileNumber:
		return r.MobileNumber
	case FieldAge:
		return r.Age
	default:
		return ""
	}
}

// UnmarshalJSON decodes a record strictly: unknown fields are rejected.
// Age may be a JSON string or number; a number is kept as its literal
// text, so {"age":25} and {"age":"25"} decode the same.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var aux struct {
		plain
		Age json.RawMessage `json:"age"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}

	age, err := decodeAge(aux.Age)
	if err != nil {
		return err
	}
	*r = Record(aux.plain)
	r.Age = age
	return nil
}

func decodeAge(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case c == '-' || (c >= '0' && c <= '9'):
		return string(raw), nil
	default:
		return "", fmt.Errorf("age: expected string or number, got %s", raw)
	}
}
