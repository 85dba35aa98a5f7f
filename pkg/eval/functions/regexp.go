package functions

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Regular-expression functions. Compile errors are reported to the
// player rather than in-band, so a bad pattern evaluates like a
// non-match.

func compileRE(ctx *eval.EvalContext, pattern string, caseless bool) *regexp.Regexp {
	if caseless {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		notifyQuiet(ctx, ctx.Player, err.Error())
		return nil
	}
	return re
}

// expandReplacement writes repl into buf, substituting $N and ${N}
// with the corresponding captured group of the match at loc. Invalid
// references pass through literally.
func expandReplacement(buf *strings.Builder, repl, src string, loc []int) {
	for i := 0; i < len(repl); i++ {
		if repl[i] != '$' {
			eval.SafeChr(repl[i], buf)
			continue
		}
		j := i + 1
		brace := false
		if j < len(repl) && repl[j] == '{' {
			brace = true
			j++
		}
		k := j
		for k < len(repl) && repl[k] >= '0' && repl[k] <= '9' {
			k++
		}
		if k == j || (brace && (k >= len(repl) || repl[k] != '}')) {
			eval.SafeChr('$', buf)
			if brace {
				eval.SafeChr('{', buf)
				i++
			}
			continue
		}
		group, _ := strconv.Atoi(repl[j:k])
		if 2*group+1 < len(loc) && loc[2*group] >= 0 {
			eval.SafeStr(src[loc[2*group]:loc[2*group+1]], buf)
		}
		i = k - 1
		if brace {
			i = k
		}
	}
}

// regeditHelper is the body of the regedit family: sed-style
// substitution of the first (or all) matches.
func regeditHelper(ctx *eval.EvalContext, args []string, buf *strings.Builder, caseless, all bool) {
	if len(args) < 3 {
		return
	}
	re := compileRE(ctx, args[1], caseless)
	if re == nil {
		return
	}
	src := args[0]

	var locs [][]int
	if all {
		locs = re.FindAllStringSubmatchIndex(src, -1)
	} else if loc := re.FindStringSubmatchIndex(src); loc != nil {
		locs = [][]int{loc}
	}
	if locs == nil {
		eval.SafeStr(src, buf)
		return
	}

	last := 0
	for _, loc := range locs {
		eval.SafeStr(src[last:loc[0]], buf)
		expandReplacement(buf, args[2], src, loc)
		last = loc[1]
	}
	eval.SafeStr(src[last:], buf)
}

func fnRegedit(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regeditHelper(ctx, args, buf, false, false)
}

func fnRegediti(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regeditHelper(ctx, args, buf, true, false)
}

func fnRegeditall(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regeditHelper(ctx, args, buf, false, true)
}

func fnRegeditalli(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regeditHelper(ctx, args, buf, true, true)
}

// regmatchHelper reports whether pattern matches string, and with a
// third argument distributes the captured groups into the listed
// registers. A register named for a group the match didn't produce is
// cleared, so a failed match wipes every listed register.
// regmatch(<string>, <pattern>[, <register list>])
func regmatchHelper(ctx *eval.EvalContext, args []string, buf *strings.Builder, caseless bool) {
	if len(args) < 2 {
		eval.SafeChr('0', buf)
		return
	}
	re := compileRE(ctx, args[1], caseless)
	if re == nil {
		eval.SafeChr('0', buf)
		return
	}
	matches := re.FindStringSubmatch(args[0])
	eval.SafeStr(boolToStr(matches != nil), buf)

	if len(args) < 3 {
		return
	}
	regs := splitList(args[2], eval.SpaceDelim)
	if len(regs) > eval.NumEnvVars {
		regs = regs[:eval.NumEnvVars]
	}
	for i, name := range regs {
		if i < len(matches) {
			ctx.SetRegister(name, matches[i])
		} else {
			ctx.SetRegister(name, "")
		}
	}
}

func fnRegmatch(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regmatchHelper(ctx, args, buf, false)
}

func fnRegmatchi(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regmatchHelper(ctx, args, buf, true)
}

// regparseHelper distributes capture groups into named object
// variables. Unlike regmatch() it produces no output, and a failed
// match clears every listed variable.
// regparse(<string>, <pattern>, <variable names>)
func regparseHelper(ctx *eval.EvalContext, args []string, caseless bool) {
	if len(args) < 3 {
		return
	}
	re := compileRE(ctx, args[1], caseless)
	if re == nil {
		return
	}
	matches := re.FindStringSubmatch(args[0])

	names := splitList(args[2], eval.SpaceDelim)
	if len(names) > eval.NumEnvVars {
		names = names[:eval.NumEnvVars]
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		if i < len(matches) {
			setXVar(ctx, ctx.Player, name, matches[i])
		} else {
			setXVar(ctx, ctx.Player, name, "")
		}
	}
}

func fnRegparse(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	regparseHelper(ctx, args, false)
}

func fnRegparsei(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	regparseHelper(ctx, args, true)
}

// regrabHelper is grab()/graball() with a regexp pattern.
// regrab(<list>, <pattern>[, <delim>])
// regraball(<list>, <pattern>[, <delim>[, <osep>]])
func regrabHelper(ctx *eval.EvalContext, args []string, buf *strings.Builder, caseless, all bool) {
	if len(args) < 2 {
		return
	}
	var isep, osep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	if all {
		if !delimOut(ctx, buf, args, 4, isep, &osep) {
			return
		}
	}
	re := compileRE(ctx, args[1], caseless)
	if re == nil {
		return
	}

	s := eval.TrimSpaceSep(args[0], isep)
	first := true
	for tok, rest, more := eval.SplitToken(s, isep); ; tok, rest, more = eval.SplitToken(rest, isep) {
		if re.MatchString(tok) {
			if !first {
				eval.PrintSep(osep, buf)
			}
			eval.SafeStr(tok, buf)
			first = false
			if !all {
				return
			}
		}
		if !more {
			return
		}
	}
}

func fnRegrab(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regrabHelper(ctx, args, buf, false, false)
}

func fnRegrabi(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regrabHelper(ctx, args, buf, true, false)
}

func fnRegraball(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regrabHelper(ctx, args, buf, false, true)
}

func fnRegraballi(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regrabHelper(ctx, args, buf, true, true)
}

// regrepHelper searches an object's attributes for a regexp pattern
// and lists the names of those that match.
// regrep(<object>, <attr pattern>, <pattern>[, <osep>])
func regrepHelper(ctx *eval.EvalContext, args []string, buf *strings.Builder, caseless bool) {
	if len(args) < 3 {
		return
	}
	var osep eval.Delim
	if len(args) < 4 {
		osep = eval.SpaceDelim
	} else if !ctx.DelimCheck(buf, args, 4, &osep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	obj, ok := ctx.DB.Objects[ref]
	if !ok {
		eval.SafeStr("#-1 NO MATCH", buf)
		return
	}
	if args[1] == "" {
		eval.SafeStr("#-1 NO SUCH ATTRIBUTE", buf)
		return
	}
	if args[2] == "" {
		eval.SafeStr("#-1 INVALID GREP PATTERN", buf)
		return
	}
	re := compileRE(ctx, args[2], caseless)
	if re == nil {
		return
	}

	first := true
	for _, attr := range obj.Attrs {
		attrName := ctx.DB.GetAttrName(attr.Number)
		if attrName == "" {
			continue
		}
		if !wildMatch(args[1], attrName) {
			continue
		}
		if !re.MatchString(eval.StripAttrPrefix(attr.Value)) {
			continue
		}
		if !first {
			eval.PrintSep(osep, buf)
		}
		eval.SafeStr(attrName, buf)
		first = false
	}
}

func fnRegrep(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regrepHelper(ctx, args, buf, false)
}

func fnRegrepi(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	regrepHelper(ctx, args, buf, true)
}
