package eval

import "strings"

// Tokenizer functions. NextToken points at the start of the next token,
// SplitToken peels one token off the front, NextTokenAnsi additionally
// tracks what color the token is. All of them treat escape sequences as
// invisible: a separator byte inside an escape code never splits.
//
// Tokens are substrings of the input; nothing is copied.

// TrimSpaceSep trims leading and trailing spaces, but only when the
// separator is the single space. Any other delimiter leaves the string
// untouched.
func TrimSpaceSep(str string, sep Delim) string {
	if sep.Len > 1 || sep.Str[0] != ' ' {
		return str
	}
	return strings.Trim(str, " ")
}

// NextToken returns the remainder of s starting at the token after the
// first separator. ok is false when s holds no further separator. For
// the space delimiter, runs of spaces collapse into one boundary.
func NextToken(s string, sep Delim) (rest string, ok bool) {
	if sep.Len == 1 {
		c := sep.Str[0]
		i := 0
		for i < len(s) {
			if s[i] == EscChar {
				i = SkipEscCode(s, i)
				continue
			}
			if s[i] == c {
				break
			}
			i++
		}
		if i >= len(s) {
			return "", false
		}
		i++
		if c == ' ' {
			for i < len(s) && s[i] == ' ' {
				i++
			}
		}
		return s[i:], true
	}
	idx := strings.Index(s, sep.Str[:sep.Len])
	if idx < 0 {
		return "", false
	}
	return s[idx+sep.Len:], true
}

// SplitToken splits the first token off s. more is false when this was
// the last token; callers loop with
//
//	for tok, rest, more := SplitToken(s, sep); ; tok, rest, more = SplitToken(rest, sep)
//
// processing tok each pass and breaking when more is false, so even an
// empty list yields one (empty) token.
func SplitToken(s string, sep Delim) (tok, rest string, more bool) {
	if sep.Len == 1 {
		c := sep.Str[0]
		i := 0
		for i < len(s) {
			if s[i] == EscChar {
				i = SkipEscCode(s, i)
				continue
			}
			if s[i] == c {
				break
			}
			i++
		}
		if i >= len(s) {
			return s, "", false
		}
		tok = s[:i]
		i++
		if c == ' ' {
			for i < len(s) && s[i] == ' ' {
				i++
			}
		}
		return tok, s[i:], true
	}
	idx := strings.Index(s, sep.Str[:sep.Len])
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+sep.Len:], true
}

// NextTokenAnsi is NextToken with color tracking: newState is the ANSI
// state in effect at the returned position. Multi-character delimiters
// carry no tracking.
func NextTokenAnsi(s string, sep Delim, state int) (rest string, newState int, more bool) {
	if sep.Len == 1 {
		c := sep.Str[0]
		i := 0
		for i < len(s) {
			if s[i] == EscChar {
				i, state = TrackEscCode(s, i, state)
				continue
			}
			if s[i] == c {
				break
			}
			i++
		}
		if i >= len(s) {
			return "", state, false
		}
		i++
		if c == ' ' {
			for i < len(s) && s[i] == ' ' {
				i++
			}
		}
		return s[i:], state, true
	}
	idx := strings.Index(s, sep.Str[:sep.Len])
	if idx < 0 {
		return "", state, false
	}
	return s[idx+sep.Len:], state, true
}

// CountWords counts the tokens in a delimiter-separated list. The
// empty list has zero words.
func CountWords(str string, sep Delim) int {
	str = TrimSpaceSep(str, sep)
	if str == "" {
		return 0
	}
	n := 1
	for {
		rest, ok := NextToken(str, sep)
		if !ok {
			return n
		}
		str = rest
		n++
	}
}

// List2Arr splits list into at most maxTok tokens. A non-empty input
// that is all separators still yields its run of empty tokens, and an
// empty input yields a single empty token.
func List2Arr(list string, sep Delim, maxTok int) []string {
	list = TrimSpaceSep(list, sep)
	arr := make([]string, 0, 8)
	for tok, rest, more := SplitToken(list, sep); ; tok, rest, more = SplitToken(rest, sep) {
		if len(arr) >= maxTok {
			break
		}
		arr = append(arr, tok)
		if !more {
			break
		}
	}
	return arr
}

// Arr2List joins arr back into a delimited list on buf.
func Arr2List(arr []string, sep Delim, buf *strings.Builder) {
	if len(arr) == 0 {
		return
	}
	SafeStr(arr[0], buf)
	for _, s := range arr[1:] {
		PrintSep(sep, buf)
		SafeStr(s, buf)
	}
}

// List2Ansi finds the ANSI state at the beginning and end of each word
// of a list. arr needs one more slot than List2Arr would use (think
// fenceposts): slot 0 starts as priorState, slot i-1 holds the state at
// the start of word i, and the slot past the last written entry is set
// to AnstNone. Returns the number of words.
func List2Ansi(arr []int, priorState, maxLen int, list string, sep Delim) int {
	if maxLen <= 0 {
		return 0
	}
	state := priorState
	arr[0] = priorState
	list = TrimSpaceSep(list, sep)
	i := 1
	for more := true; more && i < maxLen; i++ {
		arr[i-1] = state
		list, state, more = NextTokenAnsi(list, sep, state)
	}
	arr[i] = AnstNone
	return i - 1
}
