package functions

import (
	"strings"
	"sync"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Object stacks. Each object carries one stack of strings, top at
// index 0, shared across evaluations and capped by the configured
// stack limit.

var objStacks = struct {
	sync.RWMutex
	m map[gamedb.DBRef][]string
}{m: make(map[gamedb.DBRef][]string)}

func stackGet(obj gamedb.DBRef) []string {
	objStacks.RLock()
	defer objStacks.RUnlock()
	return objStacks.m[obj]
}

func stackSet(obj gamedb.DBRef, stack []string) {
	objStacks.Lock()
	defer objStacks.Unlock()
	if len(stack) == 0 {
		delete(objStacks.m, obj)
	} else {
		objStacks.m[obj] = stack
	}
}

func notifyQuiet(ctx *eval.EvalContext, player gamedb.DBRef, msg string) {
	ctx.Notifications = append(ctx.Notifications, eval.Notification{
		Target:  player,
		Message: msg,
	})
}

// stackObject resolves a stack-target argument with a control check.
func stackObject(ctx *eval.EvalContext, arg string) (gamedb.DBRef, bool) {
	it := resolveDBRef(ctx, arg)
	if _, ok := ctx.DB.Objects[it]; !ok {
		return gamedb.Nothing, false
	}
	if ctx.GameState != nil && !ctx.GameState.Controls(ctx.Player, it) {
		notifyQuiet(ctx, ctx.Player, "Permission denied.")
		return gamedb.Nothing, false
	}
	return it, true
}

// stackTarget handles the optional-object convention: a missing or
// empty first argument means the executor's own stack.
func stackTarget(ctx *eval.EvalContext, args []string, pos int) (gamedb.DBRef, bool) {
	if len(args) <= pos || args[pos] == "" {
		return ctx.Player, true
	}
	return stackObject(ctx, args[pos])
}

// fnEmpty clears a stack: empty([<object>])
func fnEmpty(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	it, ok := stackTarget(ctx, args, 0)
	if !ok {
		return
	}
	stackSet(it, nil)
}

// fnItems counts stack items: items([<object>])
func fnItems(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	it, ok := stackTarget(ctx, args, 0)
	if !ok {
		return
	}
	writeInt(buf, len(stackGet(it)))
}

// fnPush pushes a value: push([<object>,]<value>)
func fnPush(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	var it gamedb.DBRef
	var data string
	var ok bool
	if len(args) < 2 {
		it = ctx.Player
		if len(args) > 0 {
			data = args[0]
		}
	} else {
		it, ok = stackObject(ctx, args[0])
		if !ok {
			return
		}
		data = args[1]
	}
	stack := stackGet(it)
	if len(stack)+1 > ctx.StackLim {
		return
	}
	stackSet(it, append([]string{data}, stack...))
}

// fnDup copies an item to the top: dup([<object>][,<position>])
func fnDup(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	it, ok := stackTarget(ctx, args, 0)
	if !ok {
		return
	}
	stack := stackGet(it)
	if len(stack)+1 > ctx.StackLim {
		return
	}
	pos := 0
	if len(args) > 1 && args[1] != "" {
		pos = toInt(args[1])
	}
	if pos < 0 || pos >= len(stack) {
		notifyQuiet(ctx, ctx.Player, "No such item on stack.")
		return
	}
	stackSet(it, append([]string{stack[pos]}, stack...))
}

// fnSwap exchanges the top two items: swap([<object>])
func fnSwap(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	it, ok := stackTarget(ctx, args, 0)
	if !ok {
		return
	}
	stack := stackGet(it)
	if len(stack) < 2 {
		notifyQuiet(ctx, ctx.Player, "Not enough items on stack.")
		return
	}
	stack = append([]string(nil), stack...)
	stack[0], stack[1] = stack[1], stack[0]
	stackSet(it, stack)
}

// handlePop is the common body of pop(), peek() and toss().
// pop([<object>][,<position>])
func handlePop(ctx *eval.EvalContext, args []string, buf *strings.Builder, peek, toss bool) {
	it, ok := stackTarget(ctx, args, 0)
	if !ok {
		return
	}
	pos := 0
	if len(args) > 1 && args[1] != "" {
		pos = toInt(args[1])
	}
	stack := stackGet(it)
	if pos < 0 || pos >= len(stack) {
		return
	}
	if !toss {
		eval.SafeStr(stack[pos], buf)
	}
	if !peek {
		rest := append([]string(nil), stack[:pos]...)
		rest = append(rest, stack[pos+1:]...)
		stackSet(it, rest)
	}
}

func fnPop(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	handlePop(ctx, args, buf, false, false)
}

func fnPeek(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	handlePop(ctx, args, buf, true, false)
}

func fnToss(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	handlePop(ctx, args, buf, false, true)
}

// fnPopn pops a run of items as a list.
// popn(<object>, <position>, <nitems>[, osep])
func fnPopn(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var osep eval.Delim
	if len(args) < 4 {
		osep = eval.SpaceDelim
	} else if !ctx.DelimCheck(buf, args, 4, &osep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}
	it, ok := stackObject(ctx, args[0])
	if !ok {
		return
	}
	pos := toInt(args[1])
	nitems := toInt(args[2])
	stack := stackGet(it)
	if pos < 0 || pos >= len(stack) {
		return
	}
	end := pos + nitems
	if end > len(stack) {
		end = len(stack)
	}
	joinOut(buf, stack[pos:end], osep)
	rest := append([]string(nil), stack[:pos]...)
	rest = append(rest, stack[end:]...)
	stackSet(it, rest)
}

// fnLstack lists stack contents top-down: lstack([<object>][, osep])
func fnLstack(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	var osep eval.Delim
	if len(args) < 2 {
		osep = eval.SpaceDelim
	} else if !ctx.DelimCheck(buf, args, 2, &osep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}
	it, ok := stackTarget(ctx, args, 0)
	if !ok {
		return
	}
	joinOut(buf, stackGet(it), osep)
}
