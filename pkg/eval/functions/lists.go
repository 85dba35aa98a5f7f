package functions

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// splitList splits a delimited list into its words. The empty list has
// no words, matching countwords() rather than raw list2arr.
func splitList(s string, sep eval.Delim) []string {
	s = eval.TrimSpaceSep(s, sep)
	if s == "" {
		return nil
	}
	return eval.List2Arr(s, sep, eval.LbufSize/2)
}

// delimIn resolves an input separator argument.
func delimIn(ctx *eval.EvalContext, buf *strings.Builder, args []string, sepArg int, sep *eval.Delim) bool {
	return ctx.DelimCheck(buf, args, sepArg, sep, eval.DelimString)
}

// delimOut resolves an output separator argument, defaulting to the
// input separator when the argument is missing.
func delimOut(ctx *eval.EvalContext, buf *strings.Builder, args []string, sepArg int, isep eval.Delim, osep *eval.Delim) bool {
	if len(args) < sepArg {
		*osep = isep
		return true
	}
	return ctx.DelimCheck(buf, args, sepArg, osep, eval.DelimNull|eval.DelimCrlf|eval.DelimString)
}

func joinOut(buf *strings.Builder, words []string, osep eval.Delim) {
	eval.Arr2List(words, osep, buf)
}

func fnWords(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		writeInt(buf, 0)
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	writeInt(buf, eval.CountWords(args[0], isep))
}

func fnFirst(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	s := eval.TrimSpaceSep(args[0], isep)
	tok, _, _ := eval.SplitToken(s, isep)
	eval.SafeStr(tok, buf)
}

func fnRest(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	s := eval.TrimSpaceSep(args[0], isep)
	_, rest, more := eval.SplitToken(s, isep)
	if more {
		eval.SafeStr(rest, buf)
	}
}

func fnLast(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	if len(words) > 0 {
		eval.SafeStr(words[len(words)-1], buf)
	}
}

func fnExtract(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	start := toInt(args[1])
	count := toInt(args[2])
	if start < 1 || count < 1 {
		return
	}
	words := splitList(args[0], isep)
	if start > len(words) {
		return
	}
	end := start - 1 + count
	if end > len(words) {
		end = len(words)
	}
	joinOut(buf, words[start-1:end], osep)
}

func fnElements(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	words := splitList(args[0], isep)
	var result []string
	for _, posStr := range strings.Fields(args[1]) {
		pos := toInt(posStr)
		if pos >= 1 && pos <= len(words) {
			result = append(result, words[pos-1])
		}
	}
	joinOut(buf, result, osep)
}

func fnLnum(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var osep eval.Delim
	if len(args) < 3 {
		osep = eval.SpaceDelim
	} else if !ctx.DelimCheck(buf, args, 3, &osep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}
	step := 1
	if len(args) > 3 {
		step = toInt(args[3])
		if step < 1 {
			step = 1
		}
	}

	var bot, top int
	if len(args) >= 2 {
		bot = toInt(args[0])
		top = toInt(args[1])
	} else {
		// lnum(n) counts 0 .. n-1.
		top = toInt(args[0]) - 1
		if top < 0 {
			return
		}
	}

	var nums []string
	if bot <= top {
		for i := bot; i <= top; i += step {
			nums = append(nums, strconv.Itoa(i))
		}
	} else {
		for i := bot; i >= top; i -= step {
			nums = append(nums, strconv.Itoa(i))
		}
	}
	joinOut(buf, nums, osep)
}

func fnMember(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	for i, w := range splitList(args[0], isep) {
		if w == args[1] {
			writeInt(buf, i+1)
			return
		}
	}
	buf.WriteString("0")
}

func fnRemove(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	words := splitList(args[0], isep)
	found := false
	var result []string
	for _, w := range words {
		if !found && w == args[1] {
			found = true
			continue
		}
		result = append(result, w)
	}
	joinOut(buf, result, isep)
}

func fnInsert(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}
	words := splitList(args[0], isep)
	pos := toInt(args[1]) - 1
	if pos < 0 {
		pos = 0
	}
	newWord := args[2]
	if pos >= len(words) {
		words = append(words, newWord)
	} else {
		words = append(words[:pos], append([]string{newWord}, words[pos:]...)...)
	}
	joinOut(buf, words, isep)
}

func fnLdelete(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	words := splitList(args[0], isep)
	deleteSet := make(map[int]bool)
	for _, p := range strings.Fields(args[1]) {
		deleteSet[toInt(p)-1] = true
	}
	var result []string
	for i, w := range words {
		if !deleteSet[i] {
			result = append(result, w)
		}
	}
	joinOut(buf, result, isep)
}

func fnSort(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	sortType := "a"
	if len(args) > 2 && args[2] != "" {
		sortType = strings.ToLower(args[2])
	}
	words := splitList(args[0], isep)
	switch sortType {
	case "n", "i": // numeric or integer
		sort.SliceStable(words, func(i, j int) bool {
			return toFloat(words[i]) < toFloat(words[j])
		})
	case "d": // dbref
		sort.SliceStable(words, func(i, j int) bool {
			return parseDBRefNum(words[i]) < parseDBRefNum(words[j])
		})
	default: // alphabetic
		sort.SliceStable(words, func(i, j int) bool {
			return strings.ToLower(words[i]) < strings.ToLower(words[j])
		})
	}
	joinOut(buf, words, isep)
}

func parseDBRefNum(s string) int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, _ := strconv.Atoi(s)
	return n
}

func fnSetunion(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	seen := make(map[string]bool)
	var result []string
	for _, w := range splitList(args[0], isep) {
		lw := strings.ToLower(w)
		if !seen[lw] {
			seen[lw] = true
			result = append(result, w)
		}
	}
	for _, w := range splitList(args[1], isep) {
		lw := strings.ToLower(w)
		if !seen[lw] {
			seen[lw] = true
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i]) < strings.ToLower(result[j])
	})
	joinOut(buf, result, osep)
}

func fnSetdiff(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	bSet := make(map[string]bool)
	for _, w := range splitList(args[1], isep) {
		bSet[strings.ToLower(w)] = true
	}
	seen := make(map[string]bool)
	var result []string
	for _, w := range splitList(args[0], isep) {
		lw := strings.ToLower(w)
		if !bSet[lw] && !seen[lw] {
			seen[lw] = true
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i]) < strings.ToLower(result[j])
	})
	joinOut(buf, result, osep)
}

func fnSetinter(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	bSet := make(map[string]bool)
	for _, w := range splitList(args[1], isep) {
		bSet[strings.ToLower(w)] = true
	}
	seen := make(map[string]bool)
	var result []string
	for _, w := range splitList(args[0], isep) {
		lw := strings.ToLower(w)
		if bSet[lw] && !seen[lw] {
			seen[lw] = true
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i]) < strings.ToLower(result[j])
	})
	joinOut(buf, result, osep)
}

func fnRevwords(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	joinOut(buf, words, isep)
}

func fnShuffle(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep, osep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	if !delimOut(ctx, buf, args, 3, isep, &osep) {
		return
	}
	words := splitList(args[0], isep)
	rand.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	joinOut(buf, words, osep)
}

func fnItemize(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	conj := "and"
	if len(args) > 2 {
		conj = args[2]
	}
	punc := ","
	if len(args) > 3 {
		punc = args[3]
	}
	words := splitList(args[0], isep)
	switch len(words) {
	case 0:
		return
	case 1:
		eval.SafeStr(words[0], buf)
	case 2:
		eval.SafeStr(words[0]+" "+conj+" "+words[1], buf)
	default:
		eval.SafeStr(strings.Join(words[:len(words)-1], punc+" "), buf)
		eval.SafeStr(punc+" "+conj+" "+words[len(words)-1], buf)
	}
}

func fnSplice(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	list1 := splitList(args[0], isep)
	list2 := splitList(args[1], isep)
	if len(list1) != len(list2) {
		eval.SafeStr("#-1 NUMBER OF WORDS MUST BE EQUAL", buf)
		return
	}
	word := args[2]
	var result []string
	for i, w := range list1 {
		if w == word {
			result = append(result, list2[i])
		} else {
			result = append(result, w)
		}
	}
	joinOut(buf, result, osep)
}

func fnGrab(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	for _, w := range splitList(args[0], isep) {
		if wildMatch(args[1], w) {
			eval.SafeStr(w, buf)
			return
		}
	}
}

func fnGraball(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	var result []string
	for _, w := range splitList(args[0], isep) {
		if wildMatch(args[1], w) {
			result = append(result, w)
		}
	}
	joinOut(buf, result, osep)
}

// fnChoose — weighted random selection from a list.
// choose(list, weights[, delim])
func fnChoose(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	items := splitList(args[0], isep)
	weights := splitList(args[1], isep)
	if len(items) == 0 {
		return
	}
	totalWeight := 0.0
	ws := make([]float64, len(items))
	for i := range items {
		w := 1.0
		if i < len(weights) {
			w = toFloat(weights[i])
			if w <= 0 {
				w = 1.0
			}
		}
		ws[i] = w
		totalWeight += w
	}
	r := rand.Float64() * totalWeight
	cum := 0.0
	for i, w := range ws {
		cum += w
		if r < cum {
			eval.SafeStr(items[i], buf)
			return
		}
	}
	eval.SafeStr(items[len(items)-1], buf)
}

// fnGroup — group list elements into N-element groups.
// group(list, n[, delim[, odelim[, gdelim]]])
func fnGroup(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
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
	gdelim := "|"
	if len(args) > 4 && args[4] != "" {
		gdelim = args[4]
	}
	words := splitList(args[0], isep)
	n := toInt(args[1])
	if n <= 0 {
		n = 1
	}
	var groups []string
	for i := 0; i < len(words); i += n {
		end := i + n
		if end > len(words) {
			end = len(words)
		}
		groups = append(groups, strings.Join(words[i:end], osep.Sep()))
	}
	eval.SafeStr(strings.Join(groups, gdelim), buf)
}

// fnWildgrep — grep attrs using wildcard matching (not substring).
// wildgrep(object, attr-pattern, search-wildcard)
func fnWildgrep(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	if ref == gamedb.Nothing {
		return
	}
	obj, ok := ctx.DB.Objects[ref]
	if !ok {
		return
	}
	attrPattern := args[1]
	searchPattern := args[2]
	var results []string
	for _, attr := range obj.Attrs {
		attrName := ""
		if def, ok := ctx.DB.AttrNames[attr.Number]; ok {
			attrName = def.Name
		} else if wk, ok := gamedb.WellKnownAttrs[attr.Number]; ok {
			attrName = wk
		}
		if attrName == "" {
			continue
		}
		if !wildMatch(attrPattern, attrName) {
			continue
		}
		text := eval.StripAttrPrefix(attr.Value)
		if wildMatch(searchPattern, text) {
			results = append(results, attrName)
		}
	}
	joinOut(buf, results, eval.SpaceDelim)
}

// Aggregate list functions

func fnLadd(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	sum := 0.0
	for _, w := range splitList(args[0], isep) {
		sum += toFloat(w)
	}
	writeFloat(buf, sum)
}

func fnLand(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("1")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	for _, w := range splitList(args[0], isep) {
		if toInt(w) == 0 {
			buf.WriteString("0")
			return
		}
	}
	buf.WriteString("1")
}

func fnLor(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	for _, w := range splitList(args[0], isep) {
		if toInt(w) != 0 {
			buf.WriteString("1")
			return
		}
	}
	buf.WriteString("0")
}

// fnSortby — sort a list using a user-defined comparison function.
// sortby(sortfn, list[, delim])
func fnSortby(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	sortFn := args[0]
	words := splitList(args[1], isep)
	if len(words) > 1 {
		sort.SliceStable(words, func(i, j int) bool {
			result := ctx.CallUFun(sortFn, []string{words[i], words[j]})
			return toInt(result) < 0
		})
	}
	joinOut(buf, words, isep)
}

// fnLreplace — replace an element in a list.
// lreplace(list, position, new-elements[, delim])
func fnLreplace(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}
	words := splitList(args[0], isep)
	pos := toInt(args[1]) - 1
	newElems := splitList(args[2], isep)
	if pos < 0 {
		pos = 0
	}
	if pos >= len(words) {
		words = append(words, newElems...)
	} else {
		result := make([]string, 0, len(words)+len(newElems))
		result = append(result, words[:pos]...)
		result = append(result, newElems...)
		result = append(result, words[pos+1:]...)
		words = result
	}
	joinOut(buf, words, isep)
}

// fnLedit — apply edit() to every element in a list.
// ledit(list, from, to[, delim])
func fnLedit(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}
	words := splitList(args[0], isep)
	for i, w := range words {
		words[i] = strings.ReplaceAll(w, args[1], args[2])
	}
	joinOut(buf, words, isep)
}

// fnIsort — case-insensitive alphabetic sort.
// isort(list[, delim])
func fnIsort(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	sort.SliceStable(words, func(i, j int) bool {
		return strings.ToLower(words[i]) < strings.ToLower(words[j])
	})
	joinOut(buf, words, isep)
}

// fnMerge — character-level string merge.
// merge(str1, str2, char) — walk both strings (must be equal length),
// where str1 has <char>, output the corresponding character from str2;
// otherwise output str1's character.
func fnMerge(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	s1 := args[0]
	s2 := args[1]
	if len(s1) != len(s2) {
		buf.WriteString("#-1 STRING LENGTHS MUST BE EQUAL")
		return
	}
	carg := args[2]
	if len(carg) > 1 {
		buf.WriteString("#-1 TOO MANY CHARACTERS")
		return
	}
	// Empty char arg treated as space
	c := byte(' ')
	if len(carg) == 1 {
		c = carg[0]
	}
	for i := 0; i < len(s1); i++ {
		if s1[i] == c {
			eval.SafeChr(s2[i], buf)
		} else {
			eval.SafeChr(s1[i], buf)
		}
	}
}

// fnLavg — average of a list of numbers.
// lavg(list[, delim])
func fnLavg(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	if len(words) == 0 {
		buf.WriteString("0")
		return
	}
	sum := 0.0
	for _, w := range words {
		sum += toFloat(w)
	}
	writeFloat(buf, sum/float64(len(words)))
}

// fnLsub — subtract all elements in a list from the first.
// lsub(list[, delim])
func fnLsub(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	if len(words) == 0 {
		buf.WriteString("0")
		return
	}
	result := toFloat(words[0])
	for i := 1; i < len(words); i++ {
		result -= toFloat(words[i])
	}
	writeFloat(buf, result)
}

// fnLmul — multiply all elements in a list.
// lmul(list[, delim])
func fnLmul(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	if len(words) == 0 {
		buf.WriteString("0")
		return
	}
	result := toFloat(words[0])
	for i := 1; i < len(words); i++ {
		result *= toFloat(words[i])
	}
	writeFloat(buf, result)
}

// fnLdiv — divide first element by all subsequent elements.
// ldiv(list[, delim])
func fnLdiv(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	if len(words) == 0 {
		buf.WriteString("0")
		return
	}
	result := toFloat(words[0])
	for i := 1; i < len(words); i++ {
		d := toFloat(words[i])
		if d != 0 {
			result /= d
		}
	}
	writeFloat(buf, result)
}

// fnListmatch — filter list elements by wildcard pattern.
// listmatch(list, pattern[, delim])
func fnListmatch(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	var results []string
	for _, w := range splitList(args[0], isep) {
		if wildMatch(args[1], w) {
			results = append(results, w)
		}
	}
	joinOut(buf, results, isep)
}

// fnNummatch — count list elements matching a wildcard pattern.
// nummatch(list, pattern[, delim])
func fnNummatch(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	count := 0
	for _, w := range splitList(args[0], isep) {
		if wildMatch(args[1], w) {
			count++
		}
	}
	writeInt(buf, count)
}

// fnNummember — count exact occurrences of a value in a list.
// nummember(list, value[, delim])
func fnNummember(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		buf.WriteString("0")
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	count := 0
	for _, w := range splitList(args[0], isep) {
		if strings.EqualFold(w, args[1]) {
			count++
		}
	}
	writeInt(buf, count)
}
