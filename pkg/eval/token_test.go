package eval

import (
	"reflect"
	"strings"
	"testing"
)

var pipeDelim = Delim{Len: 1, Str: "|"}

func TestTrimSpaceSep(t *testing.T) {
	if got := TrimSpaceSep("  a b  ", SpaceDelim); got != "a b" {
		t.Errorf("space sep = %q, want 'a b'", got)
	}
	// Only the space delimiter trims.
	if got := TrimSpaceSep("  a b  ", pipeDelim); got != "  a b  " {
		t.Errorf("pipe sep = %q, want input unchanged", got)
	}
	if got := TrimSpaceSep("a::b", Delim{Len: 2, Str: "::"}); got != "a::b" {
		t.Errorf("string sep = %q, want input unchanged", got)
	}
}

func TestNextToken(t *testing.T) {
	tests := []struct {
		in   string
		sep  Delim
		rest string
		ok   bool
	}{
		{"a b", SpaceDelim, "b", true},
		{"a   b", SpaceDelim, "b", true}, // space runs collapse
		{"ab", SpaceDelim, "", false},
		{"", SpaceDelim, "", false},
		{"a|b|c", pipeDelim, "b|c", true},
		{"a||b", pipeDelim, "|b", true}, // no collapsing for other seps
		{"a::b::c", Delim{Len: 2, Str: "::"}, "b::c", true},
	}
	for _, tt := range tests {
		rest, ok := NextToken(tt.in, tt.sep)
		if rest != tt.rest || ok != tt.ok {
			t.Errorf("NextToken(%q) = %q, %v, want %q, %v", tt.in, rest, ok, tt.rest, tt.ok)
		}
	}
}

func TestSplitToken(t *testing.T) {
	tok, rest, more := SplitToken("a b c", SpaceDelim)
	if tok != "a" || rest != "b c" || !more {
		t.Errorf("SplitToken = %q, %q, %v", tok, rest, more)
	}
	tok, rest, more = SplitToken("last", SpaceDelim)
	if tok != "last" || rest != "" || more {
		t.Errorf("SplitToken(last) = %q, %q, %v", tok, rest, more)
	}
	// The empty list still yields one empty token.
	tok, _, more = SplitToken("", SpaceDelim)
	if tok != "" || more {
		t.Errorf("SplitToken(empty) = %q, %v", tok, more)
	}
}

func TestSplitTokenSkipsEscapes(t *testing.T) {
	// The final 'm' of the color code must not split on an 'm' delimiter.
	tok, _, more := SplitToken("a\x1b[0mb", Delim{Len: 1, Str: "m"})
	if tok != "a\x1b[0mb" || more {
		t.Errorf("escape-aware split = %q, %v, want whole string", tok, more)
	}
	tok, rest, more := SplitToken("a\x1b[0mb m c", Delim{Len: 1, Str: "m"})
	if tok != "a\x1b[0mb " || rest != " c" || !more {
		t.Errorf("escape-aware split = %q, %q, %v", tok, rest, more)
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		sep  Delim
		want int
	}{
		{"", SpaceDelim, 0},
		{"   ", SpaceDelim, 0},
		{"a b c", SpaceDelim, 3},
		{"  a   b  ", SpaceDelim, 2},
		{"a||b", pipeDelim, 3},
		{"|", pipeDelim, 2},
	}
	for _, tt := range tests {
		if got := CountWords(tt.in, tt.sep); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestList2Arr(t *testing.T) {
	tests := []struct {
		in     string
		sep    Delim
		maxTok int
		want   []string
	}{
		{"a b c", SpaceDelim, 100, []string{"a", "b", "c"}},
		{"", SpaceDelim, 100, []string{""}},
		{"a|b||c", pipeDelim, 100, []string{"a", "b", "", "c"}},
		{"a b c d", SpaceDelim, 2, []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := List2Arr(tt.in, tt.sep, tt.maxTok); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("List2Arr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArr2List(t *testing.T) {
	var buf strings.Builder
	Arr2List([]string{"a", "b", "c"}, pipeDelim, &buf)
	if buf.String() != "a|b|c" {
		t.Errorf("Arr2List = %q, want 'a|b|c'", buf.String())
	}
	// The null delimiter concatenates.
	buf.Reset()
	Arr2List([]string{"a", "b"}, Delim{Len: 1, Str: "\x00"}, &buf)
	if buf.String() != "ab" {
		t.Errorf("Arr2List null = %q, want 'ab'", buf.String())
	}
	buf.Reset()
	Arr2List(nil, SpaceDelim, &buf)
	if buf.String() != "" {
		t.Errorf("Arr2List empty = %q, want empty", buf.String())
	}
}

func TestNextTokenAnsi(t *testing.T) {
	rest, state, more := NextTokenAnsi("\x1b[0ma b", SpaceDelim, AnstNone)
	if rest != "b" || state != AnstNormal || !more {
		t.Errorf("NextTokenAnsi = %q, %#x, %v, want 'b', %#x, true", rest, state, more, AnstNormal)
	}
	_, state, more = NextTokenAnsi("plain", SpaceDelim, AnstNone)
	if state != AnstNone || more {
		t.Errorf("NextTokenAnsi(plain) = %#x, %v", state, more)
	}
}

func TestList2Ansi(t *testing.T) {
	arr := make([]int, 8)
	n := List2Ansi(arr, AnstNone, len(arr), "\x1b[1ma b", SpaceDelim)
	if n != 2 {
		t.Fatalf("List2Ansi = %d words, want 2", n)
	}
	if arr[0] != AnstNone {
		t.Errorf("state before word 1 = %#x, want %#x", arr[0], AnstNone)
	}
	// ESC[1m sets highlight and clears the no-ansi bit.
	if arr[1] != 0x0199 {
		t.Errorf("state before word 2 = %#x, want 0x0199", arr[1])
	}
	if List2Ansi(arr, AnstNone, 0, "a b", SpaceDelim) != 0 {
		t.Error("List2Ansi with no room should report 0 words")
	}
}
