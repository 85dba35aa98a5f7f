package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColorSpec turns an extended color spec from %x<...> into an
// ANSI escape sequence. A spec is an xterm palette index ("208"), a
// 24-bit hex color ("#FF5733"), or a single-letter base color. bg
// selects the background variant. Unrecognized specs yield "".
func ParseColorSpec(spec string, bg bool) string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ""
	}

	plane := 38
	if bg {
		plane = 48
	}

	if spec[0] == '#' && len(spec) == 7 {
		r, err1 := strconv.ParseUint(spec[1:3], 16, 8)
		g, err2 := strconv.ParseUint(spec[3:5], 16, 8)
		b, err3 := strconv.ParseUint(spec[5:7], 16, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return ""
		}
		return fmt.Sprintf("\033[%d;2;%d;%d;%dm", plane, r, g, b)
	}

	if n, err := strconv.Atoi(spec); err == nil && n >= 0 && n <= 255 {
		return fmt.Sprintf("\033[%d;5;%dm", plane, n)
	}

	if !bg && len(spec) == 1 {
		return AnsiCode(spec[0])
	}
	return ""
}
