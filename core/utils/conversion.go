package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt converts various types to int, yielding 0 when ToIntOK fails.
func ToInt(val any) int {
	i, _ := ToIntOK(val)
	return i
}

// ToIntOK converts standard integer types, floats, strings and byte slices to int and
// reports whether val held a usable integer. Nil, empty strings, non-numeric strings and
// out-of-range floats report false.
func ToIntOK(val any) (int, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case int16:
		return int(v), true
	case int8:
		return int(v), true
	case uint:
		return int(v), true
	case uint64:
		return int(v), true
	case uint32:
		return int(v), true
	case uint16:
		return int(v), true
	case uint8:
		return int(v), true
	case float64:
		if !fitsInt(v) {
			return 0, false
		}
		return int(v), true
	case float32:
		return ToIntOK(float64(v))
	case string:
		return parseIntString(v)
	case []byte:
		return parseIntString(string(v))
	default:
		return parseIntString(fmt.Sprintf("%v", v))
	}
}

func parseIntString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	// Vision output regularly reports integers as "2.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil && fitsInt(f) {
		return int(f), true
	}
	return 0, false
}

// fitsInt rejects NaN, infinities and magnitudes that overflow a 64-bit int.
func fitsInt(f float64) bool {
	return !math.IsNaN(f) && f >= math.MinInt64 && f < math.MaxInt64
}

// ToFloat converts various types to float64. Unparseable and non-finite values yield 0.
func ToFloat(val any) float64 {
	switch v := val.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case uint32:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return finite(f)
	case []byte:
		return ToFloat(string(v))
	default:
		return ToFloat(fmt.Sprintf("%v", v))
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToString converts various types to string. Nil becomes the empty string and
// integral floats are printed without a fractional part.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return ToInt(v) == 1
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	case []byte:
		s := string(v)
		return s == "1" || strings.ToLower(s) == "true"
	default:
		return false
	}
}
