package eval

// ANSI escape handling for the tokenizer. Color is tracked as a packed
// state integer so a list can be split without losing the rendition in
// effect at each word boundary.
//
// State bits:
//
//	0x1000 -- no ansi seen. Every valid ansi code clears this bit.
//	0x0800 -- inverse
//	0x0400 -- flash
//	0x0200 -- underline
//	0x0100 -- highlight
//	0x0080 -- "use default bg", set by ansi normal, cleared by other bg's
//	0x0070 -- three bits of bg color
//	0x0008 -- "use default fg", set by ansi normal, cleared by other fg's
//	0x0007 -- three bits of fg color

const (
	EscChar = '\x1b'
	AnsiCSI = '['
	AnsiEnd = 'm'
)

const (
	AnstNormal = 0x0099 // state produced by ESC[0m
	AnstNone   = 0x1099 // no escape codes seen at all
)

// iAnsiLim bounds the SGR parameter values we track.
const iAnsiLim = 50

// ansiBitsMask gives the state bits altered by an SGR parameter.
func ansiBitsMask(num int) int {
	switch num {
	case 0:
		return 0x1fff
	case 1, 2, 21, 22:
		return 0x1100
	case 4, 24:
		return 0x1200
	case 5, 25:
		return 0x1400
	case 7, 27:
		return 0x1800
	case 30, 31, 32, 33, 34, 35, 36, 37:
		return 0x100f
	case 40, 41, 42, 43, 44, 45, 46, 47:
		return 0x10f0
	}
	return 0
}

// ansiBits gives the state bits set by an SGR parameter.
func ansiBits(num int) int {
	switch num {
	case 0:
		return 0x0099
	case 1:
		return 0x0100
	case 4:
		return 0x0200
	case 5:
		return 0x0400
	case 7:
		return 0x0800
	case 31, 32, 33, 34, 35, 36, 37:
		return num - 30
	case 41, 42, 43, 44, 45, 46, 47:
		return (num - 40) << 4
	}
	return 0
}

// SkipEscCode advances i past one escape sequence starting at s[i]
// (which must be EscChar): the ESC itself, an optional CSI with its
// parameter bytes, any intermediate bytes, and the final byte.
func SkipEscCode(s string, i int) int {
	i++
	if i < len(s) && s[i] == AnsiCSI {
		i++
		for i < len(s) && s[i]&0xf0 == 0x30 {
			i++
		}
	}
	for i < len(s) && s[i]&0xf0 == 0x20 {
		i++
	}
	if i < len(s) {
		i++
	}
	return i
}

// TrackEscCode advances past one escape sequence like SkipEscCode and
// folds any SGR parameters into state. Only a sequence terminated by
// AnsiEnd changes the state; a partial overwrite keeps unrelated bits,
// so reapplying a code is idempotent.
func TrackEscCode(s string, i int, state int) (int, int) {
	mask, diff, param := 0, 0, 0
	i++
	if i < len(s) && s[i] == AnsiCSI {
		i++
		for i < len(s) && s[i]&0xf0 == 0x30 {
			if s[i] < 0x3a {
				param = param*10 + int(s[i]&0x0f)
			} else {
				if param < iAnsiLim {
					mask |= ansiBitsMask(param)
					diff = (diff &^ ansiBitsMask(param)) | ansiBits(param)
				}
				param = 0
			}
			i++
		}
	}
	for i < len(s) && s[i]&0xf0 == 0x20 {
		i++
	}
	if i < len(s) && s[i] == AnsiEnd {
		if param < iAnsiLim {
			mask |= ansiBitsMask(param)
			diff = (diff &^ ansiBitsMask(param)) | ansiBits(param)
		}
		state = (state &^ mask) | diff
		i++
	} else if i < len(s) {
		i++
	}
	return i, state
}
