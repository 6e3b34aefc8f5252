// internal/models/amount.go
package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Amount is a rupee value decoded from a JSON number or a numeric string.
// Empty strings and null decode to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		if s == "" {
			*a = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(v) {
			return fmt.Errorf("invalid amount %q", s)
		}
		*a = Amount(v)
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || !finite(v) {
		return fmt.Errorf("invalid amount %s", string(data))
	}
	*a = Amount(v)
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (a Amount) Float() float64 {
	return float64(a)
}

// Count is a non-fractional quantity such as a number of dependents.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	var a Amount
	if err := a.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = Count(int(a))
	return nil
}

func (c Count) Int() int {
	return int(c)
}

// Flag accepts true/false as well as the "yes"/"no" answers stored by the
// questionnaire form.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true":
		*f = true
		return nil
	case "false", "null", "":
		*f = false
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid flag %s", string(data))
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y":
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f Flag) Bool() bool {
	return bool(f)
}
