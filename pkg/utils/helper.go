package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat converts an optional query value. The bool is false when the
// value is absent or not a finite non-negative number.
func ParseFloat(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	result, err := strconv.ParseFloat(value, 64)
	if err != nil || result < 0 || math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, false
	}

	return result, true
}

// TrimPtr trims an optional string, turning blank input into nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
