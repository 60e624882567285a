package truerandomnumber

import (
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	radixLiteral   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
	leadingInteger = regexp.MustCompile(`^[+-]?\d+`)
)

// toNumber coerces a resolved parameter value the way a loosely typed host does:
// numbers pass through, numeric strings parse, empty string, nil and false are 0,
// true is 1 and anything else is NaN.
func toNumber(v interface{}) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		return stringToNumber(val)
	case json.Number:
		return stringToNumber(val.String())
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if radixLiteral.MatchString(s) {
		return radixToNumber(s)
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	// Out-of-range literals come back as ±Inf or 0 together with ErrRange.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return math.NaN()
	}
	return f
}

// radixToNumber parses an unsigned 0x, 0o or 0b literal of any length, rounding
// to the nearest float64.
func radixToNumber(s string) float64 {
	base := 16
	switch s[1] {
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	}
	n, ok := new(big.Int).SetString(s[2:], base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

func isRangeErr(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

// parseLeadingInt reads an optional sign and the digits that follow it, ignoring
// anything after them. ok is false when there are no leading digits.
func parseLeadingInt(s string) (int64, bool) {
	digits := leadingInteger.FindString(strings.TrimSpace(s))
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
