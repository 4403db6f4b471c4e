package usecase

import (
	"math"
	"strconv"
	"strings"
)

// CoerceAmount turns a cell into a number for summing.
//
// A missing cell is read as "0". Leading whitespace is ignored and the
// longest leading decimal literal is used, so "12.50 USD" is 12.5 and
// "1,234.56" is 1. Cells with no leading number, NaN and infinities yield
// (0, false). Hex is never read: "0x10" is 0.
func CoerceAmount(raw string, present bool) (float64, bool) {
	if !present {
		raw = "0"
	}

	s := numericPrefix(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// numericPrefix returns the longest prefix of s shaped like
// [sign] digits [. digits] [e [sign] digits], or "" when s has none.
// An exponent marker without digits is left out.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}

	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}

	if digits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
