package functions

import (
	"fmt"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Global register functions: setq/setr/r and friends. Registers are
// either the 36 classic q-registers (0-9, a-z) or named registers,
// both living in ctx.RData.

// readRegister writes the value of the named register to buf.
// Single-character names index the q-registers; anything longer is a
// named register, compared case-insensitively.
func readRegister(ctx *eval.EvalContext, name string, buf *strings.Builder) {
	if len(name) == 1 {
		idx := eval.QIdx(name[0])
		if idx < 0 || idx >= eval.MaxGlobalRegs {
			eval.SafeStr("#-1 INVALID GLOBAL REGISTER", buf)
			return
		}
		if ctx.RData != nil && idx < len(ctx.RData.QRegs) {
			eval.SafeStr(ctx.RData.QRegs[idx], buf)
		}
		return
	}

	if ctx.RData == nil || len(ctx.RData.XNames) == 0 {
		return
	}
	lname := strings.ToLower(name)
	for i, xn := range ctx.RData.XNames {
		if xn != "" && xn == lname {
			eval.SafeStr(ctx.RData.XRegs[i], buf)
			return
		}
	}
}

func fnSetq(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	setqVariant(ctx, "SETQ", args, buf)
}

func setqVariant(ctx *eval.EvalContext, fname string, args []string, buf *strings.Builder) {
	nfargs := len(args)
	if nfargs < 2 {
		eval.SafeStr(fmt.Sprintf("#-1 FUNCTION (%s) EXPECTS AT LEAST 2 ARGUMENTS BUT GOT %d", fname, nfargs), buf)
		return
	}
	if nfargs%2 != 0 {
		eval.SafeStr(fmt.Sprintf("#-1 FUNCTION (%s) EXPECTS AN EVEN NUMBER OF ARGUMENTS BUT GOT %d", fname, nfargs), buf)
		return
	}
	if nfargs > eval.MaxNFArgs-2 {
		// Cut off before the last register could swallow the rest of
		// the argument list.
		eval.SafeStr(fmt.Sprintf("#-1 FUNCTION (%s) EXPECTS NO MORE THAN %d ARGUMENTS BUT GOT %d", fname, eval.MaxNFArgs-2, nfargs), buf)
		return
	}

	if nfargs == 2 {
		switch ctx.SetRegister(args[0], args[1]) {
		case -1:
			eval.SafeStr("#-1 INVALID GLOBAL REGISTER", buf)
		case -2:
			eval.SafeStr("#-1 REGISTER LIMIT EXCEEDED", buf)
		}
		return
	}

	count := 0
	for i := 0; i+1 < nfargs; i += 2 {
		if ctx.SetRegister(args[i], args[i+1]) < 0 {
			count++
		}
	}
	if count > 0 {
		eval.SafeStr(fmt.Sprintf("#-1 ENCOUNTERED %d ERRORS", count), buf)
	}
}

func fnSetr(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	result := ctx.SetRegister(args[0], args[1])
	switch {
	case result == -1:
		eval.SafeStr("#-1 INVALID GLOBAL REGISTER", buf)
	case result == -2:
		eval.SafeStr("#-1 REGISTER LIMIT EXCEEDED", buf)
	case result > 0:
		eval.SafeStr(args[1], buf)
	}
}

func fnR(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 || args[0] == "" {
		return
	}
	readRegister(ctx, args[0], buf)
}

// fnLregs lists the names of all set registers: q-registers first,
// then named registers in storage order.
func fnLregs(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if ctx.RData == nil {
		return
	}
	g := ctx.RData
	first := true
	for i := range g.QRegs {
		if g.QRegs[i] != "" {
			if !first {
				eval.PrintSep(eval.SpaceDelim, buf)
			}
			first = false
			eval.SafeChr(eval.QIdxChar(i), buf)
		}
	}
	for i := range g.XNames {
		if g.XNames[i] != "" && g.XRegs[i] != "" {
			if !first {
				eval.PrintSep(eval.SpaceDelim, buf)
			}
			first = false
			eval.SafeStr(g.XNames[i], buf)
		}
	}
}

// fnQvars assigns a list of values to a list of registers.
// qvars(<register list>, <value list>[, delim])
func fnQvars(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	if args[0] == "" || args[1] == "" {
		return
	}

	names := splitList(args[0], eval.SpaceDelim)
	if len(names) == 0 {
		return
	}
	elems := splitList(args[1], isep)
	if len(elems) != len(names) {
		eval.SafeStr("#-1 LISTS MUST BE OF EQUAL SIZE", buf)
		return
	}
	for i := range names {
		ctx.SetRegister(names[i], elems[i])
	}
}

// fnWildmatch matches a string against a wildcard pattern, stashing
// the captures into the named registers on success.
// wildmatch(string, pattern, register-list)
func fnWildmatch(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	if !wildMatch(args[1], args[0]) {
		eval.SafeChr('0', buf)
		return
	}
	eval.SafeChr('1', buf)

	captures := wildMatchCapture(args[1], args[0])
	regs := splitList(args[2], eval.SpaceDelim)
	if len(regs) > eval.NumEnvVars {
		regs = regs[:eval.NumEnvVars]
	}
	for i, reg := range regs {
		val := ""
		if i < len(captures) {
			val = captures[i]
		}
		ctx.SetRegister(reg, val)
	}
}

// fnQsub substitutes register values into a string using delimited
// variable markers, $name$ by default.
// qsub(string[, begin-delim[, end-delim]])
func fnQsub(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 || args[0] == "" {
		return
	}
	var bdelim, edelim eval.Delim
	if !ctx.DelimCheck(buf, args, 2, &bdelim, eval.DelimString) {
		return
	}
	if !ctx.DelimCheck(buf, args, 3, &edelim, eval.DelimString) {
		return
	}
	// Defaulted space delims are actually $.
	if bdelim.IsSpace() {
		bdelim.Str = "$"
	}
	if edelim.IsSpace() {
		edelim.Str = "$"
	}

	tok, rest, more := eval.SplitToken(args[0], bdelim)
	for {
		eval.SafeStr(tok, buf)
		if !more {
			break
		}
		var name string
		name, rest, more = eval.SplitToken(rest, edelim)
		readRegister(ctx, name, buf)
		if !more {
			break
		}
		tok, rest, more = eval.SplitToken(rest, bdelim)
	}
}
