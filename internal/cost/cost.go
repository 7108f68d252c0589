// Package cost normalizes the loosely typed money values stored on projects
// and invoices into whole currency units.
package cost

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	strip        = regexp.MustCompile(`[^0-9.\-]`)
	leadingDigit = regexp.MustCompile(`^-?\d+`)
)

// Parse returns the integer value of v. Numbers truncate toward zero;
// strings lose every rune but digits, '.' and '-' and then yield their
// leading integer, so "₦2,500,000" is 2500000. Anything unreadable is 0.
func Parse(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return fromUint(uint64(n))
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		return parseString(n.String())
	case string:
		return parseString(n)
	case *string:
		if n == nil {
			return 0
		}
		return parseString(*n)
	default:
		return 0
	}
}

// Sum parses and adds every value.
func Sum(values ...any) int64 {
	var total int64
	for _, v := range values {
		total += Parse(v)
	}
	return total
}

func parseString(s string) int64 {
	cleaned := strip.ReplaceAllString(strings.TrimSpace(s), "")
	digits := leadingDigit.FindString(cleaned)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func fromFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0
	}
	return int64(t)
}

func fromUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return 0
	}
	return int64(u)
}

// Format renders n with thousands separators behind the naira sign.
func Format(n int64) string {
	sign := ""
	u := uint64(n)
	if n < 0 {
		sign = "-"
		u = uint64(-n)
	}
	digits := strconv.FormatUint(u, 10)

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("₦")
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
