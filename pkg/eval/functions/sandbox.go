package functions

import (
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Scoped evaluation: localize/private/uprivate, side-effect limiting
// via nofx(), and the ucall()/sandbox() register pass/restore grammar.

// calcLimitMask turns a limit string (d, q, o, v, s) into an FnLimitMask
// value, or -1 if the string names an unknown limit.
func calcLimitMask(lstr string) int {
	lmask := 0
	for i := 0; i < len(lstr); i++ {
		switch lstr[i] {
		case 'd', 'D':
			lmask |= eval.FnDbfx
		case 'q', 'Q':
			lmask |= eval.FnQfx
		case 'o', 'O':
			lmask |= eval.FnOutfx
		case 'v', 'V':
			lmask |= eval.FnVarfx
		case 's', 'S':
			lmask |= eval.FnStackfx
		case ' ':
		default:
			return -1
		}
	}
	return lmask
}

// regValue reads a register value out of a saved RegisterData snapshot.
func regValue(g *eval.RegisterData, name string) string {
	if g == nil {
		return ""
	}
	if len(name) == 1 {
		idx := eval.QIdx(name[0])
		if idx >= 0 && idx < len(g.QRegs) {
			return g.QRegs[idx]
		}
		return ""
	}
	lname := strings.ToLower(name)
	for i, xn := range g.XNames {
		if xn != "" && xn == lname {
			return g.XRegs[i]
		}
	}
	return ""
}

// fnNofx evaluates a function while forbidding classes of side effects.
// nofx(<limits>, <function>)
func fnNofx(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	lmask := calcLimitMask(args[0])
	if lmask == -1 {
		eval.SafeStr("#-1 INVALID LIMIT", buf)
		return
	}
	saveState := ctx.FnLimitMask
	ctx.FnLimitMask |= lmask
	result := ctx.Exec(args[1], eval.EvFCheck|eval.EvStrip|eval.EvEval, ctx.CArgs)
	ctx.FnLimitMask = saveState
	eval.SafeStr(result, buf)
}

// uLambdaText resolves a callable spec: <obj>/<attr>, <attr> on the
// executor, or #lambda/<code> for inline code. Returns the object the
// code nominally lives on and its text.
func uLambdaText(ctx *eval.EvalContext, spec string) (gamedb.DBRef, string) {
	if len(spec) >= 8 && strings.EqualFold(spec[:8], "#lambda/") {
		return ctx.Player, spec[8:]
	}
	parts := strings.SplitN(spec, "/", 2)
	if len(parts) == 2 {
		ref := resolveDBRef(ctx, parts[0])
		if ref == gamedb.Nothing {
			return gamedb.Nothing, ""
		}
		attrName := strings.ToUpper(strings.TrimSpace(parts[1]))
		return ref, ctx.GetAttrByNameHelper(ref, attrName)
	}
	attrName := strings.ToUpper(strings.TrimSpace(spec))
	return ctx.Player, ctx.GetAttrByNameHelper(ctx.Player, attrName)
}

// applyPassGrammar sets up the register file visible to a ucall target.
// Blank passes nothing, "@_" passes everything, "@_ <list>" passes
// everything except the listed registers, and a bare list passes only
// those registers.
func applyPassGrammar(ctx *eval.EvalContext, callp string, preserve *eval.RegisterData) {
	switch {
	case callp == "":
		ctx.RData = nil
	case callp == "@_":
		// Pass everything in.
	case strings.HasPrefix(callp, "@_ ") && len(callp) > 3:
		for _, name := range splitList(callp[3:], eval.SpaceDelim) {
			ctx.SetRegister(name, "")
		}
	default:
		ctx.RData = nil
		for _, name := range splitList(callp, eval.SpaceDelim) {
			ctx.SetRegister(name, regValue(preserve, name))
		}
	}
}

// applyRestoreGrammar merges the saved register file back after a
// ucall. Blank keeps the callee's registers, "@_" restores every
// register that was set before (keeping new ones the callee added),
// "@_ <list>" does that for all but the listed registers, "@_!"
// discards the callee's changes entirely, "@_! <list>" discards them
// but keeps the listed registers' new values, and a bare list restores
// only those registers.
func applyRestoreGrammar(ctx *eval.EvalContext, callp string, preserve *eval.RegisterData) {
	inList := func(word string, list []string) bool {
		for _, w := range list {
			if strings.EqualFold(word, w) {
				return true
			}
		}
		return false
	}

	switch {
	case callp == "":
		// Keep the callee's register file as-is.
	case callp == "@_!":
		ctx.RData = preserve
	case strings.HasPrefix(callp, "@_!") && callp[3] == ' ':
		newVals := ctx.RData
		ctx.RData = preserve
		for _, name := range splitList(callp[4:], eval.SpaceDelim) {
			ctx.SetRegister(name, regValue(newVals, name))
		}
	case callp == "@_" || (strings.HasPrefix(callp, "@_") && callp[2] == ' '):
		var excluded []string
		if callp != "@_" {
			excluded = splitList(callp[3:], eval.SpaceDelim)
		}
		if preserve != nil {
			for i := range preserve.QRegs {
				if preserve.QRegs[i] != "" {
					name := string(eval.QIdxChar(i))
					if !inList(name, excluded) {
						ctx.SetRegister(name, preserve.QRegs[i])
					}
				}
			}
			for i := range preserve.XNames {
				if preserve.XNames[i] != "" && preserve.XRegs[i] != "" {
					if !inList(preserve.XNames[i], excluded) {
						ctx.SetRegister(preserve.XNames[i], preserve.XRegs[i])
					}
				}
			}
		}
	default:
		for _, name := range splitList(callp, eval.SpaceDelim) {
			ctx.SetRegister(name, regValue(preserve, name))
		}
	}
}

// handleUcall is the common body of ucall() and sandbox().
// ucall(<regs to pass>, <regs to keep local>, <obj>/<attr>, <args>...)
// sandbox(<obj>, <limits>, <regs to pass>, <regs to keep local>,
//         <obj>/<attr>, <args>...)
func handleUcall(ctx *eval.EvalContext, args []string, buf *strings.Builder, isSandbox bool) {
	need := 3
	if isSandbox {
		need = 5
	}
	if len(args) < need {
		eval.SafeStr("#-1 TOO FEW ARGUMENTS", buf)
		return
	}

	saveState := ctx.FnLimitMask
	if isSandbox {
		lmask := calcLimitMask(args[1])
		if lmask == -1 {
			eval.SafeStr("#-1 INVALID LIMIT", buf)
			return
		}
		ctx.FnLimitMask |= lmask
	}

	preserve := ctx.RData.Clone()

	passArg := args[0]
	specArg := args[2]
	restoreArg := args[1]
	callArgs := args[3:]
	if isSandbox {
		passArg = args[2]
		restoreArg = args[3]
		specArg = args[4]
		callArgs = args[5:]
	}

	applyPassGrammar(ctx, strings.TrimSpace(passArg), preserve)

	thing, atext := uLambdaText(ctx, specArg)

	// Perspective: ucall runs as the object holding the code, sandbox
	// as the named object (falling back to the caller).
	obj := thing
	if isSandbox {
		obj = resolveDBRef(ctx, args[0])
		if obj == gamedb.Nothing {
			obj = ctx.Player
		}
	}
	if obj == gamedb.Nothing {
		obj = ctx.Player
	}

	oldPlayer := ctx.Player
	ctx.Player = obj
	result := ctx.Exec(atext, eval.EvFCheck|eval.EvEval, callArgs)
	ctx.Player = oldPlayer
	eval.SafeStr(result, buf)

	applyRestoreGrammar(ctx, strings.TrimSpace(restoreArg), preserve)

	if isSandbox {
		ctx.FnLimitMask = saveState
	}
}

func fnUcall(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	handleUcall(ctx, args, buf, false)
}

func fnSandbox(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	handleUcall(ctx, args, buf, true)
}

// fnObjcall gets the text of a u-function as the caller but executes
// it from another object's perspective.
// objcall(<obj>, <obj>/<attr>, <args>...)
func fnObjcall(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		eval.SafeStr("#-1 TOO FEW ARGUMENTS", buf)
		return
	}
	_, atext := uLambdaText(ctx, args[1])
	obj := resolveDBRef(ctx, args[0])
	if obj == gamedb.Nothing {
		obj = ctx.Player
	}
	oldPlayer := ctx.Player
	ctx.Player = obj
	result := ctx.Exec(atext, eval.EvFCheck|eval.EvEval, args[2:])
	ctx.Player = oldPlayer
	eval.SafeStr(result, buf)
}

// fnLocalize evaluates a function with the registers restored
// afterward, like ulocal() with inline code.
func fnLocalize(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	preserve := ctx.RData.Clone()
	result := ctx.Exec(args[0], eval.EvFCheck|eval.EvStrip|eval.EvEval, ctx.CArgs)
	ctx.RData = preserve
	eval.SafeStr(result, buf)
}

// fnPrivate evaluates a function with a strictly local register scope:
// nothing passes in, and changes are discarded.
func fnPrivate(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	preserve := ctx.RData
	ctx.RData = nil
	result := ctx.Exec(args[0], eval.EvFCheck|eval.EvStrip|eval.EvEval, ctx.CArgs)
	ctx.RData = preserve
	eval.SafeStr(result, buf)
}

// fnUprivate is u() with a strictly local register scope.
func fnUprivate(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	preserve := ctx.RData
	ctx.RData = nil
	result := ctx.CallUFun(args[0], args[1:])
	ctx.RData = preserve
	eval.SafeStr(result, buf)
}
