package functions

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Side-effect functions. These queue notifications rather than writing
// to connections directly; the caller drains ctx.Notifications.

func fnPemit(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	ctx.Notifications = append(ctx.Notifications, eval.Notification{
		Target:  ref,
		Message: args[1],
	})
}

func fnRemit(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	ctx.Notifications = append(ctx.Notifications, eval.Notification{
		Target:  ref,
		Message: args[1],
		Type:    eval.NotifyRemit,
	})
}

// fnOemit notifies everyone at the target's location except the target.
func fnOemit(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	if ref == gamedb.Nothing {
		return
	}
	ctx.Notifications = append(ctx.Notifications, eval.Notification{
		Target:  ref,
		Message: args[1],
		Type:    eval.NotifyOEmit,
	})
}

func fnThink(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	ctx.Notifications = append(ctx.Notifications, eval.Notification{
		Target:  ctx.Player,
		Message: args[0],
	})
}

// fnSet writes an attribute: set(<obj>/<attr>, <value>)
func fnSet(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 || ctx.GameState == nil {
		return
	}
	first := strings.TrimSpace(args[0])
	slashIdx := strings.IndexByte(first, '/')
	if slashIdx < 0 {
		return
	}
	ref := resolveDBRef(ctx, first[:slashIdx])
	if ref == gamedb.Nothing {
		return
	}
	if !ctx.GameState.Controls(ctx.Player, ref) {
		return
	}
	ctx.GameState.SetAttrByName(ref, first[slashIdx+1:], args[1])
}

// Utility functions

func fnNull(_ *eval.EvalContext, _ []string, _ *strings.Builder, _, _ gamedb.DBRef) {
}

func fnLit(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	eval.SafeStr(args[0], buf)
}

func fnSubeval(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	eval.SafeStr(ctx.Exec(args[0], eval.EvFCheck|eval.EvEval, ctx.CArgs), buf)
}

// Random functions

// fnRand returns a random number from 0 to n-1.
func fnRand(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	num := toInt(args[0])
	if num < 1 {
		eval.SafeChr('0', buf)
		return
	}
	writeInt(buf, int(eval.RandomRange(0, int64(num)-1)))
}

// fnDie rolls XdY dice: die(<number of dice>, <sides>)
func fnDie(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		eval.SafeChr('0', buf)
		return
	}
	n := toInt(args[0])
	die := toInt(args[1])
	if n == 0 || die <= 0 {
		eval.SafeChr('0', buf)
		return
	}
	if n < 1 || n > 100 {
		eval.SafeStr("#-1 NUMBER OUT OF RANGE", buf)
		return
	}
	total := 0
	for count := 0; count < n; count++ {
		total += int(eval.RandomRange(1, int64(die)))
	}
	writeInt(buf, total)
}

// fnLrand generates a list of random numbers in an inclusive range.
// lrand(<bottom>, <top>, <times>[, <osep>]). An impossible range
// yields an empty list, not an error.
func fnLrand(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var osep eval.Delim
	if len(args) < 4 {
		osep = eval.SpaceDelim
	} else if !ctx.DelimCheck(buf, args, 4, &osep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}
	times := toInt(args[2])
	if times < 1 {
		return
	}
	if times > eval.LbufSize {
		times = eval.LbufSize
	}
	bot := toInt(args[0])
	top := toInt(args[1])
	if top < bot {
		return
	}
	for i := 0; i < times; i++ {
		if i != 0 {
			eval.PrintSep(osep, buf)
		}
		if bot == top {
			writeInt(buf, bot)
		} else {
			writeInt(buf, int(eval.RandomRange(int64(bot), int64(top))))
		}
	}
}

// fnRandextract picks random elements from a list.
// randextract(<list>[, <delim>[, <count>]])
func fnRandextract(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 2, &isep) {
		return
	}
	words := splitList(args[0], isep)
	if len(words) == 0 {
		return
	}
	count := 1
	if len(args) > 2 {
		if n := toInt(args[2]); n > 0 {
			count = n
		}
	}
	if count > len(words) {
		count = len(words)
	}
	for i := 0; i < count; i++ {
		j := i + int(eval.RandomRange(0, int64(len(words)-i)-1))
		words[i], words[j] = words[j], words[i]
	}
	joinOut(buf, words[:count], isep)
}

// Time functions

func fnTime(_ *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeStr(time.Now().Format("Mon Jan 02 15:04:05 2006"), buf)
}

func fnSecs(_ *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeStr(strconv.FormatInt(time.Now().Unix(), 10), buf)
}

func fnConvsecs(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		eval.SafeStr("#-1 INVALID ARGUMENT", buf)
		return
	}
	eval.SafeStr(time.Unix(secs, 0).Format("Mon Jan 02 15:04:05 2006"), buf)
}

func fnConvtime(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		eval.SafeStr("-1", buf)
		return
	}
	layouts := []string{
		"Mon Jan 02 15:04:05 2006",
		"Mon Jan 2 15:04:05 2006",
		time.RFC1123,
		time.RFC1123Z,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, strings.TrimSpace(args[0])); err == nil {
			eval.SafeStr(strconv.FormatInt(t.Unix(), 10), buf)
			return
		}
	}
	eval.SafeStr("-1", buf)
}

// fnTimefmt formats a time with strftime-style escapes.
// timefmt(<format>[, <secs>])
func fnTimefmt(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	t := time.Now()
	if len(args) > 1 {
		if secs, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64); err == nil {
			t = time.Unix(secs, 0)
		}
	}
	eval.SafeStr(strftimeToGo(args[0], t), buf)
}

// strftimeToGo renders a C strftime format string for t.
func strftimeToGo(format string, t time.Time) string {
	var out strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			out.WriteByte(format[i])
			continue
		}
		i++
		switch format[i] {
		case 'Y':
			out.WriteString(t.Format("2006"))
		case 'y':
			out.WriteString(t.Format("06"))
		case 'm':
			out.WriteString(t.Format("01"))
		case 'd':
			out.WriteString(t.Format("02"))
		case 'H':
			out.WriteString(t.Format("15"))
		case 'M':
			out.WriteString(t.Format("04"))
		case 'S':
			out.WriteString(t.Format("05"))
		case 'A':
			out.WriteString(t.Format("Monday"))
		case 'a':
			out.WriteString(t.Format("Mon"))
		case 'B':
			out.WriteString(t.Format("January"))
		case 'b', 'h':
			out.WriteString(t.Format("Jan"))
		case 'p':
			out.WriteString(t.Format("PM"))
		case 'I':
			out.WriteString(t.Format("03"))
		case 'c':
			out.WriteString(t.Format("Mon Jan 02 15:04:05 2006"))
		case 'x':
			out.WriteString(t.Format("01/02/06"))
		case 'X':
			out.WriteString(t.Format("15:04:05"))
		case 'Z':
			out.WriteString(t.Format("MST"))
		case 'j':
			fmt.Fprintf(&out, "%03d", t.YearDay())
		case 'w':
			out.WriteString(strconv.Itoa(int(t.Weekday())))
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case '%':
			out.WriteByte('%')
		default:
			out.WriteByte('%')
			out.WriteByte(format[i])
		}
	}
	return out.String()
}

// Info functions

func fnVersion(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if ctx.VersionStr != "" {
		eval.SafeStr(ctx.VersionStr, buf)
	} else {
		eval.SafeStr("CrystalMUSH", buf)
	}
}

func fnMudname(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if ctx.MudName != "" {
		eval.SafeStr(ctx.MudName, buf)
	} else {
		eval.SafeStr("CrystalMUSH", buf)
	}
}

var startTime = time.Now()

func fnStarttime(_ *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeStr(strconv.FormatInt(startTime.Unix(), 10), buf)
}

func fnRestarttime(_ *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeStr(strconv.FormatInt(startTime.Unix(), 10), buf)
}

// fnFcount reports the function invocation counter.
func fnFcount(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	writeInt(buf, ctx.FuncInvkCtr)
}

// fnFdepth reports the current function nesting depth.
func fnFdepth(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	writeInt(buf, ctx.FuncNestLev)
}

func fnCcount(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	writeInt(buf, ctx.FuncInvkCtr)
}

func fnCdepth(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	writeInt(buf, ctx.FuncNestLev)
}

// fnCommand returns the raw command text currently being evaluated.
func fnCommand(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeStr(ctx.CurrCmd, buf)
}

// fnConfig reads a configuration parameter by its config-file name.
func fnConfig(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "mud_name":
		fnMudname(ctx, nil, buf, 0, 0)
	case "function_invocation_limit":
		writeInt(buf, ctx.FuncInvkLim)
	case "function_recursion_limit":
		writeInt(buf, ctx.FuncNestLim)
	case "register_limit":
		writeInt(buf, ctx.RegisterLimit)
	case "variables_limit":
		writeInt(buf, ctx.NumVarsLim)
	case "stack_limit":
		writeInt(buf, ctx.StackLim)
	case "structure_limit":
		writeInt(buf, ctx.StructLim)
	case "instance_limit":
		writeInt(buf, ctx.InstanceLim)
	case "gridsize_limit":
		writeInt(buf, ctx.MaxGridSize)
	case "booleans_oldstyle":
		eval.SafeStr(boolToStr(ctx.BoolsOldstyle), buf)
	case "space_compression":
		eval.SafeStr(boolToStr(ctx.SpaceCompress), buf)
	}
}

// fnEvalFn gets an attribute and evaluates its text.
// eval(<obj>, <attr>)
func fnEvalFn(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	if ref == gamedb.Nothing {
		return
	}
	text := getAttrByName(ctx, ref, strings.ToUpper(strings.TrimSpace(args[1])))
	if text == "" {
		return
	}
	eval.SafeStr(ctx.Exec(text, eval.EvFCheck|eval.EvEval, nil), buf)
}

func fnBeep(_ *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeChr('\a', buf)
}

// fnSearch searches the database by owner, class, and restriction.
// search([<player>] [<class>]=<restriction>[,<low>[,<high>]])
func fnSearch(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	// Accept both search("all type=player,0,100") and the lsearch
	// comma form lsearch(all, type, player[, low[, high]]).
	var raw string
	if len(args) == 0 {
		raw = ""
	} else if len(args) >= 3 && !strings.Contains(args[0], "=") && !strings.Contains(args[1], "=") {
		raw = strings.TrimSpace(args[0]) + " " + strings.TrimSpace(args[1]) + "=" + strings.TrimSpace(args[2])
		if len(args) >= 4 {
			raw += "," + strings.TrimSpace(args[3])
		}
		if len(args) >= 5 {
			raw += "," + strings.TrimSpace(args[4])
		}
	} else {
		raw = strings.TrimSpace(args[0])
		for i := 1; i < len(args); i++ {
			raw += "," + args[i]
		}
	}

	callerObj, callerOK := ctx.DB.Objects[ctx.Player]
	isWiz := callerOK && callerObj.Flags[0]&gamedb.FlagWizard != 0

	ownerRef := ctx.Player
	searchAll := false
	searchClass := ""
	restriction := ""
	lowBound := gamedb.DBRef(0)
	highBound := gamedb.DBRef(len(ctx.DB.Objects) - 1)
	filterType := gamedb.ObjectType(-1)

	eqIdx := strings.Index(raw, "=")
	var leftSide, rightSide string
	if eqIdx >= 0 {
		leftSide = strings.TrimSpace(raw[:eqIdx])
		rightSide = raw[eqIdx+1:]
	} else {
		leftSide = raw
	}

	if rightSide != "" {
		parts := strings.SplitN(rightSide, ",", 3)
		restriction = strings.TrimSpace(parts[0])
		if len(parts) >= 2 {
			if v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(parts[1], "#"))); err == nil {
				lowBound = gamedb.DBRef(v)
			}
		}
		if len(parts) >= 3 {
			if v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(parts[2], "#"))); err == nil {
				highBound = gamedb.DBRef(v)
			}
		}
	}

	if leftSide != "" {
		words := strings.Fields(leftSide)
		if eqIdx >= 0 {
			if len(words) == 1 {
				searchClass = strings.ToLower(words[0])
			} else {
				searchClass = strings.ToLower(words[len(words)-1])
				playerName := strings.Join(words[:len(words)-1], " ")
				if strings.EqualFold(playerName, "all") {
					if isWiz {
						searchAll = true
					}
				} else if ref := resolveDBRef(ctx, playerName); ref != gamedb.Nothing {
					ownerRef = ref
				}
			}
		} else {
			playerName := strings.Join(words, " ")
			if strings.EqualFold(playerName, "all") {
				if isWiz {
					searchAll = true
				}
			} else if ref := resolveDBRef(ctx, playerName); ref != gamedb.Nothing {
				ownerRef = ref
			}
		}
	}

	// Non-wizards only ever search their own objects; a wizard with no
	// explicit owner defaults to everything.
	if !isWiz {
		ownerRef = ctx.Player
		searchAll = false
	} else if leftSide == "" || (eqIdx >= 0 && len(strings.Fields(leftSide)) == 1) {
		searchAll = true
	}

	restrictionUpper := strings.ToUpper(restriction)
	switch searchClass {
	case "type":
		switch restrictionUpper {
		case "ROOM":
			filterType = gamedb.TypeRoom
		case "EXIT":
			filterType = gamedb.TypeExit
		case "THING", "OBJECT":
			filterType = gamedb.TypeThing
		case "PLAYER":
			filterType = gamedb.TypePlayer
		case "GARBAGE":
			filterType = gamedb.TypeGarbage
		}
	case "rooms", "eroom":
		filterType = gamedb.TypeRoom
	case "exits", "eexit":
		filterType = gamedb.TypeExit
	case "objects", "things", "eobject", "ething":
		filterType = gamedb.TypeThing
	case "players", "eplayer":
		filterType = gamedb.TypePlayer
	}

	var flagNames []string
	var flagNegate []bool
	if searchClass == "flags" {
		for i := 0; i < len(restriction); i++ {
			negate := false
			if restriction[i] == '!' {
				negate = true
				i++
				if i >= len(restriction) {
					break
				}
			}
			if fname := flagCharToName(restriction[i]); fname != "" {
				flagNames = append(flagNames, fname)
				flagNegate = append(flagNegate, negate)
			}
		}
	}

	parentRef := gamedb.Nothing
	zoneRef := gamedb.Nothing
	if searchClass == "parent" && restriction != "" {
		parentRef = resolveDBRef(ctx, restriction)
	}
	if searchClass == "zone" && restriction != "" {
		zoneRef = resolveDBRef(ctx, restriction)
	}

	isEvalClass := false
	switch searchClass {
	case "eval", "evaluate", "eplayer", "eroom", "eobject", "ething", "eexit":
		isEvalClass = true
	}

	first := true
	for ref := lowBound; ref <= highBound; ref++ {
		obj, ok := ctx.DB.Objects[ref]
		if !ok {
			continue
		}
		if obj.Flags[0]&gamedb.FlagGoing != 0 {
			continue
		}
		if !searchAll && obj.Owner != ownerRef {
			continue
		}
		if filterType >= 0 && obj.ObjType() != filterType {
			continue
		}

		switch searchClass {
		case "", "type", "rooms", "exits", "objects", "things", "players":
			if restriction != "" && searchClass != "type" && searchClass != "" &&
				!wildMatch(restriction+"*", obj.Name) {
				continue
			}
		case "name":
			if restriction != "" && !wildMatch(restriction+"*", obj.Name) {
				continue
			}
		case "flags":
			match := true
			for i, fname := range flagNames {
				if objHasFlag(obj, fname) == flagNegate[i] {
					match = false
					break
				}
			}
			if !match {
				continue
			}
		case "parent":
			if parentRef != gamedb.Nothing && obj.Parent != parentRef {
				continue
			}
		case "zone":
			if zoneRef != gamedb.Nothing && obj.Zone != zoneRef {
				continue
			}
		case "eval", "evaluate", "eplayer", "eroom", "eobject", "ething", "eexit":
			if isEvalClass && restriction != "" {
				expr := strings.ReplaceAll(restriction, "##", fmt.Sprintf("#%d", ref))
				result := strings.TrimSpace(ctx.Exec(expr, eval.EvFCheck|eval.EvEval, nil))
				if result == "" || result == "0" || result == "#-1" {
					continue
				}
			}
		default:
			continue
		}

		if !first {
			eval.SafeChr(' ', buf)
		}
		eval.SafeStr(fmt.Sprintf("#%d", ref), buf)
		first = false
	}
}

// fnStats summarizes the database by object type.
func fnStats(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	rooms, things, exits, players := 0, 0, 0, 0
	for _, obj := range ctx.DB.Objects {
		switch obj.ObjType() {
		case gamedb.TypeRoom:
			rooms++
		case gamedb.TypeThing:
			things++
		case gamedb.TypeExit:
			exits++
		case gamedb.TypePlayer:
			players++
		}
	}
	eval.SafeStr(fmt.Sprintf("%d objects = %d rooms, %d exits, %d things, %d players",
		len(ctx.DB.Objects), rooms, exits, things, players), buf)
}

func fnHasmodule(_ *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeChr('0', buf)
}

func fnRestarts(_ *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	eval.SafeChr('0', buf)
}

// fnHears tests whether one object can hear another (same location,
// containment either way).
func fnHears(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		eval.SafeChr('0', buf)
		return
	}
	listener := resolveDBRef(ctx, args[0])
	speaker := resolveDBRef(ctx, args[1])
	lObj, ok1 := ctx.DB.Objects[listener]
	sObj, ok2 := ctx.DB.Objects[speaker]
	if !ok1 || !ok2 {
		eval.SafeChr('0', buf)
		return
	}
	eval.SafeStr(boolToStr(lObj.Location == sObj.Location ||
		lObj.Location == speaker || listener == sObj.Location), buf)
}

func fnKnows(ctx *eval.EvalContext, args []string, buf *strings.Builder, caller, cause gamedb.DBRef) {
	fnHears(ctx, args, buf, caller, cause)
}

func fnMoves(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		eval.SafeChr('0', buf)
		return
	}
	_, ok1 := ctx.DB.Objects[resolveDBRef(ctx, args[0])]
	_, ok2 := ctx.DB.Objects[resolveDBRef(ctx, args[1])]
	eval.SafeStr(boolToStr(ok1 && ok2), buf)
}

func fnWritable(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		eval.SafeChr('0', buf)
		return
	}
	player := resolveDBRef(ctx, args[0])
	target := resolveDBRef(ctx, args[1])
	pObj, ok1 := ctx.DB.Objects[player]
	tObj, ok2 := ctx.DB.Objects[target]
	if !ok1 || !ok2 {
		eval.SafeChr('0', buf)
		return
	}
	eval.SafeStr(boolToStr(objHasFlag(pObj, "WIZARD") || tObj.Owner == player || player == target), buf)
}

// fnPfind finds a player by name, exact match first.
func fnPfind(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		eval.SafeStr("#-1", buf)
		return
	}
	name := strings.TrimPrefix(strings.TrimSpace(args[0]), "*")
	for ref, obj := range ctx.DB.Objects {
		if obj.ObjType() == gamedb.TypePlayer && strings.EqualFold(obj.Name, name) {
			eval.SafeStr(fmt.Sprintf("#%d", ref), buf)
			return
		}
	}
	for ref, obj := range ctx.DB.Objects {
		if obj.ObjType() == gamedb.TypePlayer && strings.HasPrefix(strings.ToLower(obj.Name), strings.ToLower(name)) {
			eval.SafeStr(fmt.Sprintf("#%d", ref), buf)
			return
		}
	}
	eval.SafeStr("#-1 NO MATCH", buf)
}

// fnValid checks a name against a naming rule: valid(<category>, <name>)
func fnValid(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		eval.SafeChr('0', buf)
		return
	}
	name := args[1]
	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "attrname":
		valid := len(name) > 0
		for _, ch := range name {
			if !((ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') ||
				(ch >= '0' && ch <= '9') || ch == '_' || ch == '-' || ch == '.' || ch == '`') {
				valid = false
				break
			}
		}
		eval.SafeStr(boolToStr(valid), buf)
	case "objectname":
		eval.SafeStr(boolToStr(len(name) > 0 && name[0] != '#'), buf)
	case "playername":
		valid := len(name) > 0
		for _, ch := range name {
			if ch == ' ' || ch == '"' || ch == ';' {
				valid = false
				break
			}
		}
		eval.SafeStr(boolToStr(valid), buf)
	default:
		eval.SafeChr('0', buf)
	}
}

// fnIbreak breaks out of iter()/parse() nesting levels.
// ibreak([<levels>])
func fnIbreak(ctx *eval.EvalContext, args []string, _ *strings.Builder, _, _ gamedb.DBRef) {
	levels := 1
	if len(args) > 0 {
		if n := toInt(args[0]); n > 0 {
			levels = n
		}
	}
	if ctx.Loop.InLoop > 0 {
		ctx.Loop.BreakLevel = levels
	}
}

// fnElementpos returns the 1-based position of an element in a list,
// or 0: elementpos(<list>, <element>[, <delim>])
func fnElementpos(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		eval.SafeChr('0', buf)
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 3, &isep) {
		return
	}
	for i, w := range splitList(args[0], isep) {
		if strings.EqualFold(w, args[1]) {
			writeInt(buf, i+1)
			return
		}
	}
	eval.SafeChr('0', buf)
}

// fnPlaymem estimates the memory footprint of a player's objects.
func fnPlaymem(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		eval.SafeChr('0', buf)
		return
	}
	ref := resolveDBRef(ctx, args[0])
	if ref == gamedb.Nothing {
		eval.SafeChr('0', buf)
		return
	}
	total := 0
	for _, obj := range ctx.DB.Objects {
		if obj.Owner == ref {
			total += 128 + len(obj.Name)
			for _, attr := range obj.Attrs {
				total += 16 + len(attr.Value)
			}
		}
	}
	writeInt(buf, total)
}

// fnObjid returns an object's id as dbref:createtime.
func fnObjid(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	obj, ok := ctx.DB.Objects[ref]
	if !ok {
		eval.SafeStr("#-1", buf)
		return
	}
	text := getAttrByName(ctx, ref, "CREATED_TIME")
	if text == "" {
		eval.SafeStr(fmt.Sprintf("#%d", obj.DBRef), buf)
	} else {
		eval.SafeStr(fmt.Sprintf("#%d:%s", obj.DBRef, text), buf)
	}
}

func fnCreatetime(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		eval.SafeStr("-1", buf)
		return
	}
	ref := resolveDBRef(ctx, args[0])
	if ref == gamedb.Nothing {
		eval.SafeStr("-1", buf)
		return
	}
	text := getAttrByName(ctx, ref, "CREATED_TIME")
	if text == "" {
		eval.SafeStr("-1", buf)
		return
	}
	eval.SafeStr(text, buf)
}

// wildMatchCapture matches a glob pattern case-insensitively and
// returns the text captured by each '*', preserving the original case.
// Returns nil on no match.
func wildMatchCapture(pattern, str string) []string {
	var captures []string
	if !captureHelper(pattern, str, &captures) {
		return nil
	}
	return captures
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b | 0x20
	}
	return b
}

func captureHelper(pattern, str string, captures *[]string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			rest := pattern[1:]
			for i := len(str); i >= 0; i-- {
				mark := len(*captures)
				*captures = append(*captures, str[:i])
				if captureHelper(rest, str[i:], captures) {
					return true
				}
				*captures = (*captures)[:mark]
			}
			return false
		case '?':
			if len(str) == 0 {
				return false
			}
			pattern = pattern[1:]
			str = str[1:]
		default:
			if len(str) == 0 || lowerByte(pattern[0]) != lowerByte(str[0]) {
				return false
			}
			pattern = pattern[1:]
			str = str[1:]
		}
	}
	return len(str) == 0
}
