package eval

import (
	"math"
	"strings"
	"testing"

	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

func TestFnRangeCheck(t *testing.T) {
	var buf strings.Builder
	if !FnRangeCheck("FOO", 2, 2, 3, &buf) || buf.Len() != 0 {
		t.Errorf("in-range check failed, out %q", buf.String())
	}

	buf.Reset()
	if FnRangeCheck("FOO", 4, 2, 3, &buf) {
		t.Error("out-of-range check passed")
	}
	if buf.String() != "#-1 FUNCTION (FOO) EXPECTS 2 OR 3 ARGUMENTS BUT GOT 4" {
		t.Errorf("error = %q", buf.String())
	}

	buf.Reset()
	FnRangeCheck("FOO", 1, 2, 5, &buf)
	if buf.String() != "#-1 FUNCTION (FOO) EXPECTS BETWEEN 2 AND 5 ARGUMENTS BUT GOT 1" {
		t.Errorf("error = %q", buf.String())
	}
}

func TestIsInteger(t *testing.T) {
	tests := map[string]bool{
		"42":    true,
		"-1":    true,
		"+3":    true,
		" 7 ":   true,
		"007":   true,
		"":      false,
		"-":     false,
		"+":     false,
		"- 3":   false,
		"3.5":   false,
		"4a":    false,
		"a":     false,
		"1 2":   false,
	}
	for in, want := range tests {
		if got := IsInteger(in); got != want {
			t.Errorf("IsInteger(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestXlateNewStyle(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	tests := map[string]bool{
		"#5":          true,
		"#0":          true,
		"#-1":         false,
		"#-2":         false,
		"#-1 NO MATCH": false,
		"#abc":        true,
		"1":           true,
		"0":           false,
		"00":          false,
		"":            false,
		"   ":         false,
		"words":       true,
		"0.0":         true, // not an integer, so truthy text
	}
	for in, want := range tests {
		if got := ctx.Xlate(in); got != want {
			t.Errorf("Xlate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestXlateOldStyle(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	ctx.BoolsOldstyle = true
	tests := map[string]bool{
		"#5":   true,
		"#0":   false,
		"#-1":  false,
		"#-2":  true, // only #-1 and #0 are false old-style
		"#abc": false,
		"0":    false,
		"1":    true,
	}
	for in, want := range tests {
		if got := ctx.Xlate(in); got != want {
			t.Errorf("old-style Xlate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRandomRange(t *testing.T) {
	if got := RandomRange(5, 3); got != 0 {
		t.Errorf("inverted range = %d, want 0", got)
	}
	if got := RandomRange(4, 4); got != 4 {
		t.Errorf("degenerate range = %d, want 4", got)
	}
	if got := RandomRange(0, int64(math.MaxInt32)+1); got != -1 {
		t.Errorf("oversized range = %d, want -1", got)
	}
	for i := 0; i < 200; i++ {
		if v := RandomRange(1, 6); v < 1 || v > 6 {
			t.Fatalf("RandomRange(1,6) = %d out of bounds", v)
		}
	}
	for i := 0; i < 200; i++ {
		if v := RandomRange(-3, 3); v < -3 || v > 3 {
			t.Fatalf("RandomRange(-3,3) = %d out of bounds", v)
		}
	}
}
