package functions

import (
	"fmt"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Object matching and location functions.

// fnPmatch matches a player name (partial) to a dbref.
func fnPmatch(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("#-1 NOT FOUND")
		return
	}
	name := strings.TrimSpace(args[0])
	if name == "" {
		buf.WriteString("#-1 NOT FOUND")
		return
	}
	if name[0] == '#' {
		ref := resolveDBRef(ctx, name)
		if obj, ok := ctx.DB.Objects[ref]; ok && obj.ObjType() == gamedb.TypePlayer {
			buf.WriteString(fmt.Sprintf("#%d", ref))
		} else {
			buf.WriteString("#-1 NOT FOUND")
		}
		return
	}
	if strings.EqualFold(name, "me") {
		buf.WriteString(fmt.Sprintf("#%d", ctx.Player))
		return
	}
	if ctx.GameState != nil {
		ref := ctx.GameState.LookupPlayer(name)
		if ref == gamedb.Ambiguous {
			buf.WriteString("#-2 AMBIGUOUS")
		} else if ref == gamedb.Nothing {
			buf.WriteString("#-1 NOT FOUND")
		} else {
			buf.WriteString(fmt.Sprintf("#%d", ref))
		}
		return
	}
	ref := resolveDBRef(ctx, name)
	buf.WriteString(fmt.Sprintf("#%d", ref))
}

// fnHastype checks if an object is of a particular type.
func fnHastype(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		buf.WriteString("0")
		return
	}
	ref := resolveDBRef(ctx, args[0])
	obj, ok := ctx.DB.Objects[ref]
	if !ok {
		buf.WriteString("0")
		return
	}
	typeName := strings.ToUpper(strings.TrimSpace(args[1]))
	var match bool
	switch typeName {
	case "ROOM":
		match = obj.ObjType() == gamedb.TypeRoom
	case "PLAYER":
		match = obj.ObjType() == gamedb.TypePlayer
	case "EXIT":
		match = obj.ObjType() == gamedb.TypeExit
	case "THING":
		match = obj.ObjType() == gamedb.TypeThing
	}
	buf.WriteString(boolToStr(match))
}

// fnChildren returns a space-separated list of children (objects with this as parent).
func fnChildren(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	var children []string
	for _, obj := range ctx.DB.Objects {
		if obj.Parent == ref && !obj.IsGoing() {
			children = append(children, fmt.Sprintf("#%d", obj.DBRef))
		}
	}
	buf.WriteString(strings.Join(children, " "))
}

// fnLparent returns the parent chain of an object (space-separated).
func fnLparent(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	var chain []string
	chain = append(chain, fmt.Sprintf("#%d", ref))
	visited := make(map[gamedb.DBRef]bool)
	visited[ref] = true
	current := ref
	for i := 0; i < 100; i++ {
		obj, ok := ctx.DB.Objects[current]
		if !ok || obj.Parent == gamedb.Nothing {
			break
		}
		if visited[obj.Parent] {
			break
		}
		visited[obj.Parent] = true
		chain = append(chain, fmt.Sprintf("#%d", obj.Parent))
		current = obj.Parent
	}
	buf.WriteString(strings.Join(chain, " "))
}

// fnEntrances returns exits that link to this object.
func fnEntrances(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	ref := resolveDBRef(ctx, args[0])
	var entrances []string
	for _, obj := range ctx.DB.Objects {
		if obj.ObjType() == gamedb.TypeExit && obj.Location == ref && !obj.IsGoing() {
			entrances = append(entrances, fmt.Sprintf("#%d", obj.DBRef))
		}
	}
	buf.WriteString(strings.Join(entrances, " "))
}

// fnLocate does advanced object matching: locate(looker, name, type)
func fnLocate(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		buf.WriteString("#-1 NOT FOUND")
		return
	}
	looker := resolveDBRef(ctx, args[0])
	name := strings.TrimSpace(args[1])
	typeFilter := ""
	if len(args) > 2 {
		typeFilter = strings.ToUpper(strings.TrimSpace(args[2]))
	}

	// Special tokens first
	if strings.EqualFold(name, "me") {
		buf.WriteString(fmt.Sprintf("#%d", looker))
		return
	}
	if strings.EqualFold(name, "here") {
		if obj, ok := ctx.DB.Objects[looker]; ok {
			buf.WriteString(fmt.Sprintf("#%d", obj.Location))
		} else {
			buf.WriteString("#-1")
		}
		return
	}
	if name[0] == '#' {
		ref := resolveDBRef(ctx, name)
		if _, ok := ctx.DB.Objects[ref]; ok {
			buf.WriteString(fmt.Sprintf("#%d", ref))
		} else {
			buf.WriteString("#-1 NOT FOUND")
		}
		return
	}
	if name[0] == '*' {
		ref := resolveDBRef(ctx, name)
		buf.WriteString(fmt.Sprintf("#%d", ref))
		return
	}

	// Search inventory, location contents, location exits
	lookerObj, ok := ctx.DB.Objects[looker]
	if !ok {
		buf.WriteString("#-1 NOT FOUND")
		return
	}

	matchType := func(obj *gamedb.Object) bool {
		if typeFilter == "" {
			return true
		}
		for _, ch := range typeFilter {
			switch ch {
			case 'R':
				if obj.ObjType() == gamedb.TypeRoom {
					return true
				}
			case 'E':
				if obj.ObjType() == gamedb.TypeExit {
					return true
				}
			case 'P':
				if obj.ObjType() == gamedb.TypePlayer {
					return true
				}
			case 'T':
				if obj.ObjType() == gamedb.TypeThing {
					return true
				}
			case '*':
				return true
			}
		}
		return false
	}

	next := lookerObj.Contents
	for next != gamedb.Nothing {
		if obj, ok := ctx.DB.Objects[next]; ok {
			if strings.EqualFold(obj.Name, name) && matchType(obj) {
				buf.WriteString(fmt.Sprintf("#%d", next))
				return
			}
			next = obj.Next
		} else {
			break
		}
	}

	loc := lookerObj.Location
	if locObj, ok := ctx.DB.Objects[loc]; ok {
		next = locObj.Contents
		for next != gamedb.Nothing {
			if obj, ok := ctx.DB.Objects[next]; ok {
				if strings.EqualFold(obj.Name, name) && matchType(obj) {
					buf.WriteString(fmt.Sprintf("#%d", next))
					return
				}
				next = obj.Next
			} else {
				break
			}
		}
		next = locObj.Exits
		for next != gamedb.Nothing {
			if obj, ok := ctx.DB.Objects[next]; ok {
				exitNames := strings.Split(obj.Name, ";")
				for _, ename := range exitNames {
					if strings.EqualFold(strings.TrimSpace(ename), name) && matchType(obj) {
						buf.WriteString(fmt.Sprintf("#%d", next))
						return
					}
				}
				next = obj.Next
			} else {
				break
			}
		}
	}

	buf.WriteString("#-1 NOT FOUND")
}

// fnRloc returns the room containing an object (walks up locations).
func fnRloc(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		buf.WriteString("#-1")
		return
	}
	ref := resolveDBRef(ctx, args[0])
	maxDepth := 20
	if len(args) > 1 {
		maxDepth = toInt(args[1])
		if maxDepth < 1 {
			maxDepth = 1
		}
		if maxDepth > 100 {
			maxDepth = 100
		}
	}
	for i := 0; i < maxDepth; i++ {
		obj, ok := ctx.DB.Objects[ref]
		if !ok {
			buf.WriteString("#-1")
			return
		}
		if obj.ObjType() == gamedb.TypeRoom {
			buf.WriteString(fmt.Sprintf("#%d", ref))
			return
		}
		if obj.Location == gamedb.Nothing {
			break
		}
		ref = obj.Location
	}
	buf.WriteString(fmt.Sprintf("#%d", ref))
}

// fnNearby checks if two objects are near each other (same room or one contains the other).
func fnNearby(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		buf.WriteString("0")
		return
	}
	ref1 := resolveDBRef(ctx, args[0])
	ref2 := resolveDBRef(ctx, args[1])
	obj1, ok1 := ctx.DB.Objects[ref1]
	obj2, ok2 := ctx.DB.Objects[ref2]
	if !ok1 || !ok2 {
		buf.WriteString("0")
		return
	}
	if obj1.Location == obj2.Location ||
		obj1.Location == ref2 ||
		obj2.Location == ref1 ||
		ref1 == ref2 {
		buf.WriteString("1")
	} else {
		buf.WriteString("0")
	}
}
