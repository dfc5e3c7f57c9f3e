package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrEmptyInput indicates a numeric field was left blank.
	ErrEmptyInput = errors.New("value is required")
	// ErrNotNumeric indicates a field could not be read as a number.
	ErrNotNumeric = errors.New("value is not a number")
)

// ParseAmount reads a user-entered number. Positivity is left to the caller.
func ParseAmount(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, ErrEmptyInput
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNotNumeric
	}

	return value, nil
}

// NumericInput holds the raw text of a numeric request field. It accepts both
// JSON numbers and JSON strings so form values can be forwarded untouched.
type NumericInput string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return ErrNotNumeric
	}
	*n = NumericInput(num.String())
	return nil
}

// Provided reports whether the field carried any text at all.
func (n NumericInput) Provided() bool {
	return strings.TrimSpace(string(n)) != ""
}

// Float parses the field with ParseAmount.
func (n NumericInput) Float() (float64, error) {
	return ParseAmount(string(n))
}
