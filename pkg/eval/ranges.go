package eval

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// FnRangeCheck validates the argument count of a function with
// optional arguments. On failure it writes the error to buf and
// returns false.
func FnRangeCheck(fname string, nfargs, minargs, maxargs int, buf *strings.Builder) bool {
	if nfargs >= minargs && nfargs <= maxargs {
		return true
	}
	if maxargs == minargs+1 {
		SafeStr(fmt.Sprintf("#-1 FUNCTION (%s) EXPECTS %d OR %d ARGUMENTS BUT GOT %d",
			fname, minargs, maxargs, nfargs), buf)
	} else {
		SafeStr(fmt.Sprintf("#-1 FUNCTION (%s) EXPECTS BETWEEN %d AND %d ARGUMENTS BUT GOT %d",
			fname, minargs, maxargs, nfargs), buf)
	}
	return false
}

// IsInteger reports whether s is just an optionally signed decimal
// integer, ignoring surrounding whitespace. A bare sign doesn't count.
func IsInteger(s string) bool {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
		if i >= len(s) {
			return false
		}
	}
	if i >= len(s) || s[i] < '0' || s[i] > '9' {
		return false
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i >= len(s)
}

// atoi64 parses like strtol: leading whitespace, optional sign, then
// as many digits as it can. Anything unparsable is 0.
func atoi64(s string) int64 {
	s = strings.TrimLeft(s, " \t")
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	v, _ := strconv.ParseInt(s[:i], 10, 64)
	return v
}

// Xlate is the boolean truth of a softcode value. A dbref-style value
// ('#' followed by an integer) is true when the number is non-negative;
// old-style booleans instead call only #-1 and #0 false. A '#' followed
// by a non-integer is false old-style, and new-style is false only for
// a '#-1 <text>' error. A plain value is false when empty or a zero
// integer, true otherwise.
func (ctx *EvalContext) Xlate(arg string) bool {
	if len(arg) > 0 && arg[0] == '#' {
		arg = arg[1:]
		if IsInteger(arg) {
			if ctx.BoolsOldstyle {
				v := atoi64(arg)
				return v != -1 && v != 0
			}
			return atoi64(arg) >= 0
		}
		if ctx.BoolsOldstyle {
			return false
		}
		// Case of '#-1 <string>'.
		return !strings.HasPrefix(arg, "-1 ")
	}
	trimmed := strings.Trim(arg, " ")
	if trimmed == "" {
		return false
	}
	if IsInteger(trimmed) {
		return atoi64(trimmed) != 0
	}
	return true
}

// RandomRange returns a uniform random number on [low, high]. An
// inverted range yields 0, a degenerate one yields low, and a range
// wider than INT_MAX yields -1. To avoid introducing statistical bias
// we reject draws at or above the greatest representable multiple of
// the range width; the expected number of draws is under 2.
func RandomRange(low, high int64) int64 {
	if high < low {
		return 0
	}
	if high == low {
		return low
	}

	x := uint64(high - low)
	if x > math.MaxInt32 {
		return -1
	}
	x++

	nLimit := uint64(math.MaxInt32) - (uint64(math.MaxInt32) % x)
	var n uint64
	for {
		n = uint64(rand.Int31())
		if n < nLimit {
			break
		}
	}
	return low + int64(n%x)
}
