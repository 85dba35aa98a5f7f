package functions

import (
	"strconv"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// List iteration. The iter() family receives its arguments unevaluated,
// so the list and both separators are evaluated here; delimIterIn and
// delimIterOut do that through DelimCheck's eval flag.

func delimIterIn(ctx *eval.EvalContext, buf *strings.Builder, args []string, sepArg int, sep *eval.Delim) bool {
	return ctx.DelimCheck(buf, args, sepArg, sep, eval.DelimEval|eval.DelimString)
}

func delimIterOut(ctx *eval.EvalContext, buf *strings.Builder, args []string, sepArg int, isep eval.Delim, osep *eval.Delim) bool {
	if len(args) < sepArg {
		*osep = isep
		return true
	}
	return ctx.DelimCheck(buf, args, sepArg, osep,
		eval.DelimEval|eval.DelimNull|eval.DelimCrlf|eval.DelimString)
}

// pushLoop enters one iteration level and returns its index.
func pushLoop(ctx *eval.EvalContext) int {
	ctx.Loop.InLoop++
	ctx.Loop.LoopTokens = append(ctx.Loop.LoopTokens, "")
	ctx.Loop.LoopTokens2 = append(ctx.Loop.LoopTokens2, "")
	ctx.Loop.LoopNumbers = append(ctx.Loop.LoopNumbers, 0)
	return ctx.Loop.InLoop - 1
}

func popLoop(ctx *eval.EvalContext, idx int) {
	ctx.Loop.LoopTokens = ctx.Loop.LoopTokens[:idx]
	ctx.Loop.LoopTokens2 = ctx.Loop.LoopTokens2[:idx]
	ctx.Loop.LoopNumbers = ctx.Loop.LoopNumbers[:idx]
	ctx.Loop.InLoop--
}

// fnIter implements iter(list, pattern[, idelim[, odelim]]).
// ## is the current element, #@ the 0-based position.
func fnIter(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep, osep eval.Delim
	if !delimIterIn(ctx, buf, args, 3, &isep) {
		return
	}
	if !delimIterOut(ctx, buf, args, 4, isep, &osep) {
		return
	}
	listStr := ctx.Exec(args[0], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	pattern := args[1]

	words := splitList(listStr, isep)
	if len(words) == 0 {
		return
	}

	idx := pushLoop(ctx)
	first := true
	for i, word := range words {
		ctx.Loop.LoopTokens[idx] = word
		ctx.Loop.LoopNumbers[idx] = i
		result := ctx.Exec(pattern, eval.EvFCheck|eval.EvEval|eval.EvStrip, ctx.CArgs)
		if !first {
			eval.PrintSep(osep, buf)
		}
		eval.SafeStr(result, buf)
		first = false
		if ctx.Loop.BreakLevel > 0 {
			ctx.Loop.BreakLevel--
			break
		}
	}
	popLoop(ctx, idx)
}

// fnParse is an alias for iter().
func fnParse(ctx *eval.EvalContext, args []string, buf *strings.Builder, caller, cause gamedb.DBRef) {
	fnIter(ctx, args, buf, caller, cause)
}

// fnMap implements map(obj/attr, list[, delim[, odelim]])
func fnMap(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep, osep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	if !delimOut(ctx, buf, args, 4, isep, &osep) {
		return
	}
	words := splitList(args[1], isep)
	first := true
	for _, word := range words {
		result := ctx.CallIterFun(args[0], []string{word})
		if !first {
			eval.PrintSep(osep, buf)
		}
		eval.SafeStr(result, buf)
		first = false
	}
}

// fnFilter implements filter(obj/attr, list[, delim[, odelim]])
func fnFilter(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep, osep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	if !delimOut(ctx, buf, args, 4, isep, &osep) {
		return
	}
	words := splitList(args[1], isep)
	var results []string
	for _, word := range words {
		if isTrue(ctx.CallIterFun(args[0], []string{word})) {
			results = append(results, word)
		}
	}
	joinOut(buf, results, osep)
}

// fnFilterbool is like filter() but tests true booleans, which here
// matches filter's truth rule.
func fnFilterbool(ctx *eval.EvalContext, args []string, buf *strings.Builder, caller, cause gamedb.DBRef) {
	fnFilter(ctx, args, buf, caller, cause)
}

// fnFold implements fold(obj/attr, list[, base[, delim]])
func fnFold(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}
	words := splitList(args[1], isep)
	if len(words) == 0 {
		return
	}

	var acc string
	if len(args) > 2 {
		acc = args[2]
	} else {
		acc = words[0]
		words = words[1:]
	}
	for _, word := range words {
		acc = ctx.CallIterFun(args[0], []string{acc, word})
	}
	eval.SafeStr(acc, buf)
}

// fnForeach implements foreach(obj/attr, string): calls the function
// once per character.
func fnForeach(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	for _, ch := range args[1] {
		eval.SafeStr(ctx.CallIterFun(args[0], []string{string(ch)}), buf)
	}
}

// fnWhile implements while(condfn, bodyfn, initial[, delim]): repeats
// the body while the condition holds on the current value.
func fnWhile(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var osep eval.Delim
	if !delimIn(ctx, buf, args, 4, &osep) {
		return
	}
	current := args[2]
	var results []string
	for i := 0; i < 10000; i++ {
		if !isTrue(ctx.CallIterFun(args[0], []string{current})) {
			break
		}
		current = ctx.CallIterFun(args[1], []string{current})
		results = append(results, current)
	}
	joinOut(buf, results, osep)
}

// fnUntil is while() with the condition inverted.
func fnUntil(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var osep eval.Delim
	if !delimIn(ctx, buf, args, 4, &osep) {
		return
	}
	current := args[2]
	var results []string
	for i := 0; i < 10000; i++ {
		if isTrue(ctx.CallIterFun(args[0], []string{current})) {
			break
		}
		current = ctx.CallIterFun(args[1], []string{current})
		results = append(results, current)
	}
	joinOut(buf, results, osep)
}

// Loop state query functions

func fnIlev(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	writeInt(buf, ctx.Loop.InLoop-1)
}

// fnItext returns the ## token n levels up from the innermost loop.
func fnItext(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	idx := ctx.Loop.InLoop - 1 - toInt(args[0])
	if idx >= 0 && idx < len(ctx.Loop.LoopTokens) {
		eval.SafeStr(ctx.Loop.LoopTokens[idx], buf)
	}
}

func fnInum(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	idx := ctx.Loop.InLoop - 1 - toInt(args[0])
	if idx >= 0 && idx < len(ctx.Loop.LoopNumbers) {
		eval.SafeStr(strconv.Itoa(ctx.Loop.LoopNumbers[idx]), buf)
	}
}

// fnStep implements step(obj/attr, list, n[, delim[, odelim]]): calls
// the function with n list elements at a time as %0..%9.
func fnStep(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep, osep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}
	if !delimOut(ctx, buf, args, 5, isep, &osep) {
		return
	}
	words := splitList(args[1], isep)
	step := toInt(args[2])
	if step <= 0 {
		step = 1
	}
	first := true
	for i := 0; i < len(words); i += step {
		end := i + step
		if end > len(words) {
			end = len(words)
		}
		result := ctx.CallIterFun(args[0], words[i:end])
		if !first {
			eval.PrintSep(osep, buf)
		}
		eval.SafeStr(result, buf)
		first = false
	}
}

// fnMix implements mix(obj/attr, list1, list2[, listN...[, delim]]).
// With more than three arguments the last one is always the delimiter.
func fnMix(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	lastList := len(args)
	if len(args) > 3 {
		if !delimIn(ctx, buf, args, len(args), &isep) {
			return
		}
		lastList = len(args) - 1
	} else {
		isep = eval.SpaceDelim
	}

	lists := args[1:lastList]
	words := make([][]string, len(lists))
	maxLen := 0
	for i, l := range lists {
		words[i] = splitList(l, isep)
		if len(words[i]) > maxLen {
			maxLen = len(words[i])
		}
	}
	first := true
	for i := 0; i < maxLen; i++ {
		callArgs := make([]string, len(words))
		for j, w := range words {
			if i < len(w) {
				callArgs[j] = w[i]
			}
		}
		result := ctx.CallIterFun(args[0], callArgs)
		if !first {
			eval.PrintSep(isep, buf)
		}
		eval.SafeStr(result, buf)
		first = false
	}
}

// fnIter2 iterates over two lists simultaneously; #+ holds the element
// from the second list. iter2(list1, list2, pattern[, idelim[, odelim]])
func fnIter2(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep, osep eval.Delim
	if !delimIterIn(ctx, buf, args, 4, &isep) {
		return
	}
	if !delimIterOut(ctx, buf, args, 5, isep, &osep) {
		return
	}
	list1Str := ctx.Exec(args[0], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	list2Str := ctx.Exec(args[1], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	pattern := args[2]

	words1 := splitList(list1Str, isep)
	words2 := splitList(list2Str, isep)
	maxLen := len(words1)
	if len(words2) > maxLen {
		maxLen = len(words2)
	}
	if maxLen == 0 {
		return
	}

	idx := pushLoop(ctx)
	first := true
	for i := 0; i < maxLen; i++ {
		w1, w2 := "", ""
		if i < len(words1) {
			w1 = words1[i]
		}
		if i < len(words2) {
			w2 = words2[i]
		}
		ctx.Loop.LoopTokens[idx] = w1
		ctx.Loop.LoopTokens2[idx] = w2
		ctx.Loop.LoopNumbers[idx] = i
		result := ctx.Exec(pattern, eval.EvFCheck|eval.EvEval|eval.EvStrip, ctx.CArgs)
		if !first {
			eval.PrintSep(osep, buf)
		}
		eval.SafeStr(result, buf)
		first = false
		if ctx.Loop.BreakLevel > 0 {
			ctx.Loop.BreakLevel--
			break
		}
	}
	popLoop(ctx, idx)
}

// fnWhentrue returns the list prefix up to and including the first
// element whose pattern result is false; whenfalse stops at the first
// true result. whentrue(list, pattern[, idelim[, odelim]])
func fnWhentrue(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	whenHelper(ctx, args, buf, true)
}

func fnWhenfalse(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	whenHelper(ctx, args, buf, false)
}

func whenHelper(ctx *eval.EvalContext, args []string, buf *strings.Builder, wantTrue bool) {
	if len(args) < 2 {
		return
	}
	var isep, osep eval.Delim
	if !delimIterIn(ctx, buf, args, 3, &isep) {
		return
	}
	if !delimIterOut(ctx, buf, args, 4, isep, &osep) {
		return
	}
	listStr := ctx.Exec(args[0], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	pattern := args[1]

	words := splitList(listStr, isep)
	if len(words) == 0 {
		return
	}

	idx := pushLoop(ctx)
	var results []string
	for i, word := range words {
		ctx.Loop.LoopTokens[idx] = word
		ctx.Loop.LoopNumbers[idx] = i
		result := ctx.Exec(pattern, eval.EvFCheck|eval.EvEval|eval.EvStrip, ctx.CArgs)
		if isTrue(result) == wantTrue {
			results = append(results, word)
		}
	}
	popLoop(ctx, idx)
	joinOut(buf, results, osep)
}

// fnLoop is iter() that sends each nonempty result to the executor as a
// notification instead of returning output.
func fnLoop(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIterIn(ctx, buf, args, 3, &isep) {
		return
	}
	listStr := ctx.Exec(args[0], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	pattern := args[1]

	words := splitList(listStr, isep)
	if len(words) == 0 {
		return
	}

	idx := pushLoop(ctx)
	for i, word := range words {
		ctx.Loop.LoopTokens[idx] = word
		ctx.Loop.LoopNumbers[idx] = i
		result := ctx.Exec(pattern, eval.EvFCheck|eval.EvEval|eval.EvStrip, ctx.CArgs)
		if result != "" {
			notifyQuiet(ctx, ctx.Player, result)
		}
		if ctx.Loop.BreakLevel > 0 {
			ctx.Loop.BreakLevel--
			break
		}
	}
	popLoop(ctx, idx)
}

// fnList is an alias for loop().
func fnList(ctx *eval.EvalContext, args []string, buf *strings.Builder, caller, cause gamedb.DBRef) {
	fnLoop(ctx, args, buf, caller, cause)
}

// fnList2 is loop() over two lists. list2(list1, list2, pattern[, idelim])
func fnList2(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	if !delimIterIn(ctx, buf, args, 4, &isep) {
		return
	}
	list1Str := ctx.Exec(args[0], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	list2Str := ctx.Exec(args[1], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	pattern := args[2]

	words1 := splitList(list1Str, isep)
	words2 := splitList(list2Str, isep)
	maxLen := len(words1)
	if len(words2) > maxLen {
		maxLen = len(words2)
	}
	if maxLen == 0 {
		return
	}

	idx := pushLoop(ctx)
	for i := 0; i < maxLen; i++ {
		w1, w2 := "", ""
		if i < len(words1) {
			w1 = words1[i]
		}
		if i < len(words2) {
			w2 = words2[i]
		}
		ctx.Loop.LoopTokens[idx] = w1
		ctx.Loop.LoopTokens2[idx] = w2
		ctx.Loop.LoopNumbers[idx] = i
		result := ctx.Exec(pattern, eval.EvFCheck|eval.EvEval|eval.EvStrip, ctx.CArgs)
		if result != "" {
			notifyQuiet(ctx, ctx.Player, result)
		}
		if ctx.Loop.BreakLevel > 0 {
			ctx.Loop.BreakLevel--
			break
		}
	}
	popLoop(ctx, idx)
}

// fnWhentrue2 and fnWhenfalse2 are the dual-list when helpers: the
// pattern sees ## and #+, and elements of list1 are kept by the result.
// whentrue2(list1, list2, pattern[, idelim[, odelim]])
func fnWhentrue2(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	when2Helper(ctx, args, buf, true)
}

func fnWhenfalse2(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	when2Helper(ctx, args, buf, false)
}

func when2Helper(ctx *eval.EvalContext, args []string, buf *strings.Builder, wantTrue bool) {
	if len(args) < 3 {
		return
	}
	var isep, osep eval.Delim
	if !delimIterIn(ctx, buf, args, 4, &isep) {
		return
	}
	if !delimIterOut(ctx, buf, args, 5, isep, &osep) {
		return
	}
	list1Str := ctx.Exec(args[0], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	list2Str := ctx.Exec(args[1], eval.EvFCheck|eval.EvEval, ctx.CArgs)
	pattern := args[2]

	words1 := splitList(list1Str, isep)
	words2 := splitList(list2Str, isep)
	maxLen := len(words1)
	if len(words2) > maxLen {
		maxLen = len(words2)
	}
	if maxLen == 0 {
		return
	}

	idx := pushLoop(ctx)
	var results []string
	for i := 0; i < maxLen; i++ {
		w1, w2 := "", ""
		if i < len(words1) {
			w1 = words1[i]
		}
		if i < len(words2) {
			w2 = words2[i]
		}
		ctx.Loop.LoopTokens[idx] = w1
		ctx.Loop.LoopTokens2[idx] = w2
		ctx.Loop.LoopNumbers[idx] = i
		result := ctx.Exec(pattern, eval.EvFCheck|eval.EvEval|eval.EvStrip, ctx.CArgs)
		if isTrue(result) == wantTrue {
			results = append(results, w1)
		}
	}
	popLoop(ctx, idx)
	joinOut(buf, results, osep)
}

// fnMunge implements munge(obj/attr, list1, list2[, delim]): the
// function reorders list1, and the corresponding list2 elements come
// back in that order.
func fnMunge(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}
	list1 := splitList(args[1], isep)
	list2 := splitList(args[2], isep)
	if len(list1) != len(list2) {
		eval.SafeStr("#-1 LISTS MUST BE OF EQUAL SIZE", buf)
		return
	}

	var joined strings.Builder
	joinOut(&joined, list1, isep)
	reordered := ctx.CallIterFun(args[0], []string{joined.String(), isep.Str})
	reorderedWords := splitList(reordered, isep)

	// Pair elements positionally, consuming each list1 slot once so
	// duplicates map correctly.
	used := make([]bool, len(list1))
	var results []string
	for _, w := range reorderedWords {
		for i, orig := range list1 {
			if !used[i] && w == orig {
				used[i] = true
				results = append(results, list2[i])
				break
			}
		}
	}
	joinOut(buf, results, isep)
}
