package eval

import "strings"

// Delimiter handling. Most list functions take an optional separator
// argument; DelimCheck is the single gatekeeper that turns that raw
// argument into a Delim under the rules the function declares.

// MaxDelimLen is the longest string separator DelimCheck accepts.
const MaxDelimLen = 128

// NullDelimVar is the magic separator argument meaning "no delimiter
// at all" for functions that accept DelimNull.
const NullDelimVar = "@@"

// DelimCheck flags. They describe what a function allows its separator
// argument to be beyond a single character.
const (
	DelimEval   = 0x001 // evaluate the separator argument first
	DelimNull   = 0x002 // @@ means the null delimiter
	DelimCrlf   = 0x004 // %r (CR LF) is a valid delimiter
	DelimString = 0x008 // multi-character separators allowed
)

// Delim is a list separator. Len 1 is the common single-character
// case (a NUL byte there is the null delimiter, which never splits and
// prints nothing), Len > 1 is a literal separator string, and Len 0
// only ever means DelimCheck rejected the argument.
type Delim struct {
	Len int
	Str string
}

// SpaceDelim is the default separator for every list function.
var SpaceDelim = Delim{Len: 1, Str: " "}

// IsSpace reports whether d is the single-space delimiter.
func (d Delim) IsSpace() bool {
	return d.Len == 1 && d.Str == " "
}

// Sep returns the text this delimiter contributes between output
// elements: the null delimiter prints nothing, CR prints CRLF, and
// everything else prints itself.
func (d Delim) Sep() string {
	if d.Len == 1 {
		switch d.Str[0] {
		case '\x00':
			return ""
		case '\r':
			return "\r\n"
		}
	}
	return d.Str[:d.Len]
}

// PrintSep appends the delimiter's output form to buf, honoring the
// output buffer cap.
func PrintSep(d Delim, buf *strings.Builder) bool {
	return SafeStr(d.Sep(), buf)
}

// DelimCheck resolves the separator argument at 1-based position
// sepArg of args into sep. Missing or empty arguments yield the space
// delimiter. Multi-character arguments are only legal when the
// function allows them: DelimNull maps "@@" to the null delimiter,
// DelimCrlf maps a literal CR LF to the line delimiter, and
// DelimString accepts an arbitrary string up to MaxDelimLen.
// On failure it writes the in-band error to buf and returns false.
func (ctx *EvalContext) DelimCheck(buf *strings.Builder, args []string, sepArg int, sep *Delim, dflags int) bool {
	if len(args) < sepArg {
		*sep = SpaceDelim
		return true
	}

	tstr := args[sepArg-1]
	if len(tstr) <= 1 {
		dflags &^= DelimEval
	}
	if dflags&DelimEval != 0 {
		tstr = ctx.Exec(tstr, EvEval|EvFCheck, nil)
	}

	sep.Len = 1
	switch {
	case len(tstr) == 0:
		sep.Str = " "
	case len(tstr) == 1:
		sep.Str = tstr
	default:
		switch {
		case dflags&DelimNull != 0 && tstr == NullDelimVar:
			sep.Str = "\x00"
		case dflags&DelimCrlf != 0 && tstr == "\r\n":
			sep.Str = "\r"
		case dflags&DelimString != 0:
			if len(tstr) > MaxDelimLen {
				SafeStr("#-1 SEPARATOR TOO LONG", buf)
				sep.Len = 0
			} else {
				sep.Str = tstr
				sep.Len = len(tstr)
			}
		default:
			SafeStr("#-1 SEPARATOR MUST BE ONE CHARACTER", buf)
			sep.Len = 0
		}
	}
	return sep.Len != 0
}
