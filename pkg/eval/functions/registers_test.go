package functions

import (
	"strings"
	"testing"
)

// --- setq / setr / r ---

func TestFnSetqSetr(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[setq(0,val)][r(0)]":       "val",
		"[setr(1,hello)]":           "hello",
		"[setq(a,lower)][r(A)]":     "lower",
		"[setq(foo,bar)][r(foo)]":   "bar",
		"[setq(foo,bar)][r(FOO)]":   "bar",
		"[r(9)]":                    "",
		"[r(!)]":                    "#-1 INVALID GLOBAL REGISTER",
		"[setq(!,x)]":               "#-1 INVALID GLOBAL REGISTER",
		"[setr(!,x)]":               "#-1 INVALID GLOBAL REGISTER",
		"[setq(0)]":                 "#-1 FUNCTION (SETQ) EXPECTS AT LEAST 2 ARGUMENTS BUT GOT 1",
		"[setq(0,a,1)]":             "#-1 FUNCTION (SETQ) EXPECTS AN EVEN NUMBER OF ARGUMENTS BUT GOT 3",
		"[setq(!,a,?,b)]":           "#-1 ENCOUNTERED 2 ERRORS",
		"[setq(0,a,1,b)][r(0)][r(1)]": "ab",
	})
}

func TestFnSetqDelete(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[setq(0,val)][setq(0,)][r(0)]")
	if got != "" {
		t.Errorf("deleted register = %q, want empty", got)
	}
}

func TestFnSetqRegisterLimit(t *testing.T) {
	e := newEvalTestEnv(t)
	e.ctx.RegisterLimit = 10
	for i := 0; i < 10; i++ {
		e.ctx.SetRegister("reg"+string(rune('a'+i)), "v")
	}
	got := e.eval("[setq(overflow,x)]")
	if got != "#-1 REGISTER LIMIT EXCEEDED" {
		t.Errorf("register limit = %q", got)
	}
}

func TestFnLregs(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[setq(0,a,z,b,myreg,c)][lregs()]")
	if got != "0 z myreg" {
		t.Errorf("lregs = %q, want '0 z myreg'", got)
	}
}

func TestFnQvars(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[qvars(0 1,a b)][r(0)]-[r(1)]": "a-b",
		"[qvars(0 1,a b c)]":            "#-1 LISTS MUST BE OF EQUAL SIZE",
		"[qvars(0 1,x|y,|)][r(1)]":      "y",
	})
}

func TestFnWildmatch(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[wildmatch(foo bar,* *,0 1)]:[r(0)]:[r(1)]": "1:foo:bar",
		"[wildmatch(nope,xyz*,0)]":                   "0",
	})
}

func TestFnQsub(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[setq(name,World)][qsub(Hello $name$!)]": "Hello World!",
		"[setq(0,X)][qsub(a<0>c,<,>)]":            "aXc",
		"[qsub(no markers here)]":                 "no markers here",
	})
}

// --- Object variables ---

func TestFnXSetxStore(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[setx(foo,bar)][x(foo)]": "bar",
		"[store(baz,qux)]":        "qux",
		"[store(k,v)][x(k)]":      "vv",
		"[x(never-set)]":          "",
	})
}

func TestFnXvars(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[xvars(a b,1 2)][x(a)][x(b)]":   "12",
		"[xvars(a b,1 2 3)]":             "#-1 LIST MUST BE OF EQUAL SIZE",
		"[xvars(p q,1|2,|)][x(p)][x(q)]": "12",
	})
	// An empty list clears the named variables.
	got := e.eval("[setx(a,1)][xvars(a,)][x(a)]")
	if got != "" {
		t.Errorf("xvars clear = %q, want empty", got)
	}
}

func TestFnLet(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[setx(v,old)][let(v,new,[x(v)])][x(v)]": "newold",
		"[let(a b,1 2,[x(a)][x(b)])]":            "12",
		"[let(a,1 2,body)]":                      "#-1 LIST MUST BE OF EQUAL SIZE",
	})
}

func TestFnLvarsClearvars(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[setx(bbb,1)][setx(aaa,2)][lvars()]")
	if got != "aaa bbb" {
		t.Errorf("lvars = %q, want 'aaa bbb'", got)
	}
	got = e.eval("[clearvars()][lvars()]")
	if got != "" {
		t.Errorf("lvars after clearvars = %q, want empty", got)
	}
}

func TestFnWildparse(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[wildparse(foo bar,* *,one two)][x(one)]-[x(two)]")
	if got != "foo-bar" {
		t.Errorf("wildparse = %q, want 'foo-bar'", got)
	}
	// No match leaves the variables alone.
	got = e.eval("[setx(one,keep)][wildparse(nope,xyz*,one)][x(one)]")
	if got != "keep" {
		t.Errorf("wildparse no-match = %q, want 'keep'", got)
	}
}

// --- nofx / localize / private ---

func TestFnNofx(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[nofx(z,foo)]":                   "#-1 INVALID LIMIT",
		"[nofx(v,[setq(0,x)])]":           "#-1 PERMISSION DENIED",
		"[nofx(v,plain)][setq(0,ok)][r(0)]": "plainok",
		"[nofx(d,[setq(0,x)])][r(0)]":     "x",
	})
}

func TestFnLocalize(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[setq(0,out)][localize([setq(0,in)][r(0)])][r(0)]")
	if got != "inout" {
		t.Errorf("localize = %q, want 'inout'", got)
	}
}

func TestFnPrivate(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[setq(0,out)][private([r(0)][setq(0,in)][r(0)])][r(0)]")
	if got != "inout" {
		t.Errorf("private = %q, want 'inout'", got)
	}
}

// --- ucall / sandbox / objcall ---

func TestFnUcallPassRestore(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		// Pass everything in, see the outer register.
		"[setq(0,outer)][ucall(@_,@_,#lambda/[r(0)])]": "outer",
		// Blank pass: the callee starts with no registers, and blank
		// restore keeps whatever the callee left behind.
		"[setq(0,outer)][ucall(,,#lambda/[r(0)]x)][r(0)]": "x",
		// @_! discards the callee's register changes entirely.
		"[setq(0,outer)][ucall(@_,@_!,#lambda/[setq(0,inner)])][r(0)]": "outer",
		// A bare list restores only the named registers.
		"[setq(0,A)][setq(1,B)][ucall(@_,0,#lambda/[setq(0,X)][setq(1,Y)])][r(0)][r(1)]": "AY",
		"[ucall(a,b)]": "#-1 TOO FEW ARGUMENTS",
	})
}

func TestFnUcallArgs(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[ucall(@_,@_,#2/TESTFN,hello)]")
	if got != "HELLO" {
		t.Errorf("ucall with attr = %q, want 'HELLO'", got)
	}
}

func TestFnSandbox(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[sandbox(me,z,@_,@_,#lambda/x)]":               "#-1 INVALID LIMIT",
		"[sandbox(me,v,@_,@_,#lambda/[setq(0,x)])]":     "#-1 PERMISSION DENIED",
		"[sandbox(#3,,@_,@_,#lambda/[num(me)])]":        "#3",
		"[sandbox(me,,@_,@_,#lambda/ok)][setq(0,y)][r(0)]": "oky",
	})
}

func TestFnObjcall(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[objcall(#3,#lambda/[num(me)])]")
	if got != "#3" {
		t.Errorf("objcall = %q, want '#3'", got)
	}
}

func TestFnUprivate(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[uprivate(#2/TESTFN,abc)]")
	if got != "ABC" {
		t.Errorf("uprivate = %q, want 'ABC'", got)
	}
	// Register changes inside uprivate are discarded.
	got = e.eval("[setq(0,keep)][uprivate(#2/TESTFN,x)][r(0)]")
	if !strings.Contains(got, "keep") {
		t.Errorf("uprivate register isolation: got %q", got)
	}
}
