package functions

import (
	"sort"
	"strconv"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Object variables: a per-object key/value store separate from the
// global registers. Keys are "<dbref>.<name>" with the name folded to
// lowercase. Setting an empty value deletes the variable.

func xvarKey(obj gamedb.DBRef, name string) string {
	return strconv.Itoa(int(obj)) + "." + strings.ToLower(name)
}

func setXVar(ctx *eval.EvalContext, obj gamedb.DBRef, name, value string) {
	if name == "" {
		return
	}
	if ctx.Vars == nil {
		ctx.Vars = make(map[string]string)
		ctx.VarsCount = make(map[gamedb.DBRef]int)
	}
	key := xvarKey(obj, name)
	if _, ok := ctx.Vars[key]; ok {
		if value != "" {
			ctx.Vars[key] = value
		} else {
			delete(ctx.Vars, key)
			ctx.VarsCount[obj]--
		}
		return
	}
	if ctx.VarsCount[obj]+1 > ctx.NumVarsLim {
		return
	}
	if value != "" {
		ctx.Vars[key] = value
		ctx.VarsCount[obj]++
	}
}

func getXVar(ctx *eval.EvalContext, obj gamedb.DBRef, name string) string {
	if ctx.Vars == nil {
		return ""
	}
	return ctx.Vars[xvarKey(obj, name)]
}

// fnX reads a variable: x(<name>)
func fnX(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	eval.SafeStr(getXVar(ctx, ctx.Player, args[0]), buf)
}

// fnSetx sets a variable: setx(<name>, <value>)
func fnSetx(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	setXVar(ctx, ctx.Player, args[0], args[1])
}

// fnStore sets a variable and echoes the value: store(<name>, <value>)
func fnStore(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	setXVar(ctx, ctx.Player, args[0], args[1])
	eval.SafeStr(args[1], buf)
}

// fnXvars parses a list into variables.
// xvars(<space-separated variable list>, <list>[, delim])
// An empty list clears the named variables.
func fnXvars(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	names := splitList(args[0], eval.SpaceDelim)
	if len(names) == 0 {
		return
	}
	if args[1] == "" {
		for _, name := range names {
			setXVar(ctx, ctx.Player, name, "")
		}
		return
	}
	elems := splitList(args[1], isep)
	if len(elems) != len(names) {
		eval.SafeStr("#-1 LIST MUST BE OF EQUAL SIZE", buf)
		return
	}
	for i := range names {
		setXVar(ctx, ctx.Player, names[i], elems[i])
	}
}

// fnLet binds variables around a function body and restores their old
// values afterward.
// let(<variable list>, <value list>, <body>[, delim])
// Unlike xvars(), an empty value list leaves the current values alone.
func fnLet(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 || args[0] == "" {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}

	varlist := ctx.Exec(args[0], eval.EvFCheck|eval.EvStrip|eval.EvEval, ctx.CArgs)
	names := splitList(varlist, eval.SpaceDelim)
	if len(names) == 0 {
		return
	}
	for i := range names {
		names[i] = strings.ToLower(names[i])
	}

	old := make([]string, len(names))
	for i, name := range names {
		old[i] = getXVar(ctx, ctx.Player, name)
	}

	if args[1] != "" {
		elemlist := ctx.Exec(args[1], eval.EvFCheck|eval.EvStrip|eval.EvEval, ctx.CArgs)
		elems := splitList(elemlist, isep)
		if len(elems) != len(names) {
			eval.SafeStr("#-1 LIST MUST BE OF EQUAL SIZE", buf)
			return
		}
		for i := range names {
			setXVar(ctx, ctx.Player, names[i], elems[i])
		}
	}

	result := ctx.Exec(args[2], eval.EvFCheck|eval.EvStrip|eval.EvEval, ctx.CArgs)
	eval.SafeStr(result, buf)

	for i := range names {
		setXVar(ctx, ctx.Player, names[i], old[i])
	}
}

// fnLvars lists the executor's variable names.
func fnLvars(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if ctx.Vars == nil {
		return
	}
	prefix := strconv.Itoa(int(ctx.Player)) + "."
	var names []string
	for key := range ctx.Vars {
		if strings.HasPrefix(key, prefix) {
			names = append(names, key[len(prefix):])
		}
	}
	sort.Strings(names)
	joinOut(buf, names, eval.SpaceDelim)
}

// fnClearvars wipes all of the executor's variables.
func fnClearvars(ctx *eval.EvalContext, _ []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if ctx.Vars == nil {
		return
	}
	prefix := strconv.Itoa(int(ctx.Player)) + "."
	for key := range ctx.Vars {
		if strings.HasPrefix(key, prefix) {
			delete(ctx.Vars, key)
		}
	}
	ctx.VarsCount[ctx.Player] = 0
}

// fnWildparse slurps wildcard captures into named variables.
// wildparse(<string>, <pattern>, <variable list>)
func fnWildparse(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	if !wildMatch(args[1], args[0]) {
		return
	}
	captures := wildMatchCapture(args[1], args[0])
	names := splitList(args[2], eval.SpaceDelim)
	if len(names) > eval.NumEnvVars {
		names = names[:eval.NumEnvVars]
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		val := ""
		if i < len(captures) {
			val = captures[i]
		}
		setXVar(ctx, ctx.Player, name, val)
	}
}
