package eval

import (
	"strings"
	"testing"

	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

func TestDelimCheckDefaults(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	var buf strings.Builder
	var sep Delim

	// Missing argument yields the space delimiter.
	if !ctx.DelimCheck(&buf, []string{"list"}, 2, &sep, 0) || !sep.IsSpace() {
		t.Errorf("missing arg: sep = %+v", sep)
	}
	// So does an empty one.
	if !ctx.DelimCheck(&buf, []string{"list", ""}, 2, &sep, 0) || !sep.IsSpace() {
		t.Errorf("empty arg: sep = %+v", sep)
	}
	if !ctx.DelimCheck(&buf, []string{"list", "|"}, 2, &sep, 0) || sep.Str != "|" || sep.Len != 1 {
		t.Errorf("single char: sep = %+v", sep)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestDelimCheckMultiChar(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	var sep Delim

	var buf strings.Builder
	if ctx.DelimCheck(&buf, []string{"l", "ab"}, 2, &sep, 0) {
		t.Error("multi-char sep accepted without DelimString")
	}
	if buf.String() != "#-1 SEPARATOR MUST BE ONE CHARACTER" {
		t.Errorf("error = %q", buf.String())
	}
	if sep.Len != 0 {
		t.Errorf("rejected sep has Len %d", sep.Len)
	}

	buf.Reset()
	if !ctx.DelimCheck(&buf, []string{"l", "-=-"}, 2, &sep, DelimString) ||
		sep.Len != 3 || sep.Str != "-=-" {
		t.Errorf("string sep = %+v, out %q", sep, buf.String())
	}

	buf.Reset()
	long := strings.Repeat("x", MaxDelimLen+1)
	if ctx.DelimCheck(&buf, []string{"l", long}, 2, &sep, DelimString) {
		t.Error("oversized sep accepted")
	}
	if buf.String() != "#-1 SEPARATOR TOO LONG" {
		t.Errorf("error = %q", buf.String())
	}
}

func TestDelimCheckSpecials(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	var buf strings.Builder
	var sep Delim

	if !ctx.DelimCheck(&buf, []string{"l", NullDelimVar}, 2, &sep, DelimNull) ||
		sep.Len != 1 || sep.Str[0] != '\x00' {
		t.Errorf("null sep = %+v", sep)
	}
	if !ctx.DelimCheck(&buf, []string{"l", "\r\n"}, 2, &sep, DelimCrlf) ||
		sep.Len != 1 || sep.Str[0] != '\r' {
		t.Errorf("crlf sep = %+v", sep)
	}
	// Without the flag, @@ is just a two-character string.
	if ctx.DelimCheck(&buf, []string{"l", NullDelimVar}, 2, &sep, 0) {
		t.Error("@@ accepted without DelimNull")
	}
}

func TestDelimSep(t *testing.T) {
	if got := (Delim{Len: 1, Str: "\x00"}).Sep(); got != "" {
		t.Errorf("null Sep = %q, want empty", got)
	}
	if got := (Delim{Len: 1, Str: "\r"}).Sep(); got != "\r\n" {
		t.Errorf("cr Sep = %q, want CRLF", got)
	}
	if got := (Delim{Len: 2, Str: "ab"}).Sep(); got != "ab" {
		t.Errorf("string Sep = %q", got)
	}
	if got := SpaceDelim.Sep(); got != " " {
		t.Errorf("space Sep = %q", got)
	}
}
