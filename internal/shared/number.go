package shared

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads the longest numeric prefix of s and falls back to zero,
// so "12kg" is 12 and "abc" is 0. Non-finite results are also zero.
func ParseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\r\n")
	match := numericPrefix.FindString(s)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Number is a float64 that accepts JSON numbers, numeric strings and null.
// Form inputs arrive as strings; anything unparseable decodes to zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(ParseNumber(s))
	default:
		*n = Number(ParseNumber(string(data)))
	}
	return nil
}

// Float returns the value as float64.
func (n Number) Float() float64 {
	return float64(n)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
