package eval

import "strings"

// Output buffer discipline. Evaluation output lives in fixed-size
// "large buffers"; every append goes through a Safe* helper that
// truncates at LbufSize rather than growing without bound.

// LbufSize is the output buffer cap, matching the classic LBUF_SIZE.
const LbufSize = 8192

// SbufSize is the cap for small working strings (names, hash keys).
const SbufSize = 64

// SafeStr appends s to buf, truncating at LbufSize. It returns true
// if anything was dropped.
func SafeStr(s string, buf *strings.Builder) bool {
	room := LbufSize - buf.Len()
	if room <= 0 {
		return len(s) > 0
	}
	if len(s) > room {
		buf.WriteString(s[:room])
		return true
	}
	buf.WriteString(s)
	return false
}

// SafeChr appends one byte to buf, truncating at LbufSize. It returns
// true if the byte was dropped.
func SafeChr(ch byte, buf *strings.Builder) bool {
	if buf.Len() >= LbufSize {
		return true
	}
	buf.WriteByte(ch)
	return false
}
