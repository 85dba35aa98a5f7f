package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// @function command keys
const (
	FunctList   = 1  // List the user-defined functions
	FunctNoEval = 2  // Don't evaluate args to function
	FunctPriv   = 4  // Perform ufun as holding obj
	FunctPres   = 8  // Preserve r-regs before ufun
	FunctNoregs = 16 // Private r-regs for ufun
)

func (ctx *EvalContext) notifyQuiet(player gamedb.DBRef, msg string) {
	ctx.Notifications = append(ctx.Notifications, Notification{
		Target:  player,
		Message: msg,
		Type:    NotifyPemit,
	})
}

// attrNameByNum resolves an attribute number back to its name.
func (ctx *EvalContext) attrNameByNum(attrNum int) string {
	if name, ok := gamedb.WellKnownAttrs[attrNum]; ok {
		return name
	}
	for name, def := range ctx.DB.AttrByName {
		if def.Number == attrNum {
			return name
		}
	}
	return ""
}

// attrNumByName resolves an attribute name to its number, or -1.
func (ctx *EvalContext) attrNumByName(attrName string) int {
	if def, ok := ctx.DB.AttrByName[attrName]; ok {
		return def.Number
	}
	for num, name := range gamedb.WellKnownAttrs {
		if strings.EqualFold(name, attrName) {
			return num
		}
	}
	return -1
}

// DoFunction implements the @function command: bind a softcode
// function name to an object attribute, redefine an existing one, or
// list the table. Builtin names cannot be shadowed. Results go to the
// player as notifications.
func (ctx *EvalContext) DoFunction(player gamedb.DBRef, key int, fname, target string) {
	if key&FunctList != 0 {
		if fname != "" {
			up := strings.ToUpper(fname)
			if ufp, ok := ctx.UFunctions[up]; ok {
				ctx.notifyQuiet(player, fmt.Sprintf("%s: #%d/%s",
					ufp.Name, ufp.Obj, ctx.attrNameByNum(ufp.Attr)))
			} else {
				ctx.notifyQuiet(player, fmt.Sprintf("%s not found in user function table.",
					strings.ToLower(fname)))
			}
			return
		}

		names := make([]string, 0, len(ctx.UFunctions))
		for name := range ctx.UFunctions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ufp := ctx.UFunctions[name]
			ctx.notifyQuiet(player, fmt.Sprintf("%s: #%d/%s",
				ufp.Name, ufp.Obj, ctx.attrNameByNum(ufp.Attr)))
		}
		return
	}

	np := strings.ToUpper(fname)

	if _, ok := ctx.Functions[np]; ok {
		ctx.notifyQuiet(player, "Function already defined in builtin function table.")
		return
	}

	// Target is obj/attr.
	parts := strings.SplitN(target, "/", 2)
	if len(parts) != 2 {
		ctx.notifyQuiet(player, "I don't see that here.")
		return
	}
	obj := ctx.resolveDBRefSimple(parts[0])
	if obj == gamedb.Nothing {
		ctx.notifyQuiet(player, "I don't see that here.")
		return
	}
	attrName := strings.ToUpper(strings.TrimSpace(parts[1]))
	atr := ctx.attrNumByName(attrName)
	if atr < 0 {
		ctx.notifyQuiet(player, "No such attribute.")
		return
	}

	if ctx.GameState != nil {
		raw := ctx.GetAttrValue(obj, atr)
		if !ctx.GameState.CanReadAttrGS(player, obj, atr, raw) {
			ctx.notifyQuiet(player, "Permission denied.")
			return
		}
		if key&FunctPriv != 0 && !ctx.GameState.Controls(player, obj) {
			ctx.notifyQuiet(player, "Permission denied.")
			return
		}
	}

	// Redefinition reuses the entry.
	ufp, ok := ctx.UFunctions[np]
	if !ok {
		ufp = &UFunction{Name: np}
		ctx.UFunctions[np] = ufp
	}
	ufp.Obj = obj
	ufp.Attr = atr
	ufp.Flags = 0
	if key&FunctNoEval != 0 {
		ufp.Flags |= UfNoEval
	}
	if key&FunctPriv != 0 {
		ufp.Flags |= UfPriv
	}
	if key&FunctNoregs != 0 {
		ufp.Flags |= UfNoregs
	} else if key&FunctPres != 0 {
		ufp.Flags |= UfPres
	}

	ctx.notifyQuiet(player, fmt.Sprintf("Function %s defined.", fname))
}
