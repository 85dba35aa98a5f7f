package functions

import (
	"strings"
	"testing"

	mushcrypt "github.com/crystal-mush/mushcode/pkg/crypt"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// resetSharedState clears the package-level structure, stack and grid
// stores so tests don't see each other's data.
func resetSharedState() {
	globalStructs.mu.Lock()
	globalStructs.Structs = make(map[gamedb.DBRef]map[string]*structDef)
	globalStructs.Instances = make(map[gamedb.DBRef]map[string]*structInstance)
	globalStructs.mu.Unlock()

	objStacks.Lock()
	objStacks.m = make(map[gamedb.DBRef][]string)
	objStacks.Unlock()

	objGrids.Lock()
	objGrids.m = make(map[gamedb.DBRef]*objGrid)
	objGrids.Unlock()
}

type evalStep struct {
	expr, want string
}

// runSteps evaluates stateful expressions in order.
func (e *evalTestEnv) runSteps(t *testing.T, steps []evalStep) {
	t.Helper()
	for _, s := range steps {
		if got := e.eval(s.expr); got != s.want {
			t.Errorf("%s = %q, want %q", s.expr, got, s.want)
		}
	}
}

// --- Structures ---

func TestStructureLifecycle(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[structure(point,x y,i i)]", "1"},
		{"[construct(p1,point,x y,3 4)]", "1"},
		{"[z(p1,x)]", "3"},
		{"[z(p1,y)]", "4"},
		{"[modify(p1,x,9)]", "1"},
		{"[z(p1,x)]", "9"},
		{"[unload(p1)]", "9 4"},
		{"[unload(p1,|)]", "9|4"},
		{"[lstructures()]", "point"},
		{"[linstances()]", "p1"},
		// A structure with live instances cannot be removed.
		{"[unstructure(point)]", "0"},
		{"[destruct(p1)]", "1"},
		{"[unstructure(point)]", "1"},
		{"[lstructures()]", ""},
	})
}

func TestStructureErrors(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	if got := e.eval("[structure(bad,x,q)]"); got != "0" {
		t.Errorf("invalid type = %q, want '0'", got)
	}
	if got := e.eval("[structure(has.dot,x,i)]"); got != "0" {
		t.Errorf("period in name = %q, want '0'", got)
	}
	e.runSteps(t, []evalStep{
		{"[structure(point,x y,i i)]", "1"},
		{"[construct(p1,point,x)]", "#-1 FUNCTION (CONSTRUCT) EXPECTS 2 OR 4 OR 5 ARGUMENTS BUT GOT 3"},
		{"[construct(p1,nosuch)]", "0"},
		// int component rejects a non-integer value
		{"[construct(p1,point,x,abc)]", "0"},
		// unknown component
		{"[construct(p1,point,z,1)]", "0"},
		// duplicate definition
		{"[structure(point,x y,i i)]", "0"},
		{"[construct(p1,point)]", "1"},
		// duplicate instance
		{"[construct(p1,point)]", "0"},
	})
}

func TestStructureDefaults(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[structure(npc,name hp,s i,guard 10)]", "1"},
		{"[construct(n1,npc)]", "1"},
		{"[z(n1,name)]", "guard"},
		{"[z(n1,hp)]", "10"},
		{"[construct(n2,npc,hp,25)]", "1"},
		{"[z(n2,hp)]", "25"},
		{"[z(n2,name)]", "guard"},
	})
}

func TestStructureLoadWriteRead(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[structure(pair,a b,a a)]", "1"},
		{"[load(m1,pair,1 2)]", "1"},
		{"[z(m1,b)]", "2"},
		{"[load(m2,pair,3|4,|)]", "1"},
		{"[z(m2,a)]", "3"},
		{"[write(#2/STORED,m1)]", ""},
		{"[read(#2/STORED,m3,pair)]", "1"},
		{"[z(m3,a)]", "1"},
		{"[delimit(#2/STORED,-)]", "1-2"},
		// duplicate instance
		{"[load(m1,pair,9 9)]", "0"},
		// wrong component count
		{"[load(m9,pair,1 2 3)]", "0"},
	})
}

func TestLoadStructStore(t *testing.T) {
	resetSharedState()
	defs := map[gamedb.DBRef]map[string]*gamedb.StructDef{
		1: {"point": {
			Name:       "point",
			Components: []string{"x", "y"},
			Types:      []byte{'i', 'i'},
			Delim:      " ",
		}},
	}
	insts := map[gamedb.DBRef]map[string]*gamedb.StructInstance{
		1: {
			"p1":     {DefName: "point", Values: []string{"3", "4"}},
			"orphan": {DefName: "nosuch", Values: []string{"x"}},
		},
	}
	LoadStructStore(defs, insts)

	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[z(p1,y)]", "4"},
		// orphaned instances are dropped on load
		{"[linstances()]", "p1"},
		// the relinked definition counts its instances
		{"[unstructure(point)]", "0"},
	})
}

// --- Stacks ---

func TestStackPushPopPeek(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[push(a)][push(b)][push(c)][lstack()]", "c b a"},
		{"[items()]", "3"},
		{"[peek()]", "c"},
		{"[pop()]", "c"},
		{"[items()]", "2"},
		{"[pop(,1)]", "a"},
		{"[lstack()]", "b"},
	})
}

func TestStackDupSwapToss(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[push(a)][push(b)][dup()][lstack()]", "b b a"},
		{"[toss()][lstack()]", "b a"},
		{"[swap()][lstack()]", "a b"},
		{"[empty()][items()]", "0"},
	})
	// swap on a short stack notifies instead of changing anything.
	e.ctx.Notifications = nil
	e.eval("[push(only)][swap()]")
	if len(e.ctx.Notifications) == 0 ||
		e.ctx.Notifications[0].Message != "Not enough items on stack." {
		t.Errorf("swap short stack: notifications = %+v", e.ctx.Notifications)
	}
}

func TestStackPopn(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[push(d)][push(c)][push(b)][push(a)][popn(me,1,2)]", "b c"},
		{"[lstack()]", "a d"},
	})
}

func TestStackOtherObject(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[push(#2,thing)][lstack(#2)]", "thing"},
		{"[lstack()]", ""},
	})
	// Non-controllers are refused.
	e.ctx.Player = 3
	e.ctx.Notifications = nil
	e.eval("[push(#2,nope)]")
	if len(e.ctx.Notifications) == 0 ||
		e.ctx.Notifications[0].Message != "Permission denied." {
		t.Errorf("stack permission: notifications = %+v", e.ctx.Notifications)
	}
}

func TestStackLimit(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.ctx.StackLim = 2
	if got := e.eval("[push(a)][push(b)][push(c)][items()]"); got != "2" {
		t.Errorf("stack limit = %q, want '2'", got)
	}
}

// --- Grids ---

func TestGridMakeAndRead(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[gridsize()]", "0 0"},
		{"[gridmake(2,3,a b c|d e f,%b,|)]", ""},
		{"[gridsize()]", "2 3"},
		{"[grid(2,2)]", "e"},
		{"[grid(1 2,1 2)]", "a b d e"},
		{"[grid(,,~)]", "a~b~c d~e~f"},
		{"[grid()]", "a b c d e f"},
	})
}

func TestGridSet(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.runSteps(t, []evalStep{
		{"[gridmake(2,2)]", ""},
		{"[gridset(,,X)][grid()]", "X X X X"},
		{"[gridset(1,2,Y)][grid()]", "X Y X X"},
		{"[gridset(2,,Z)][grid()]", "X Y Z Z"},
		{"[gridset(5,5,W)]", "#-1 GOT 1 OUT OF RANGE ERRORS"},
	})
}

func TestGridErrors(t *testing.T) {
	resetSharedState()
	e := newEvalTestEnv(t)
	e.ctx.MaxGridSize = 10
	e.runSteps(t, []evalStep{
		{"[gridmake(4,4)]", "#-1 INVALID GRID SIZE"},
		{"[gridmake(-1,2)]", "#-1 INVALID GRID SIZE"},
		{"[gridmake(2,2,a b|c d|e f,%b,|)]", "#-1 TOO MANY DATA ROWS"},
		{"[gridmake(2,2,a b c,%b,|)]", "#-1 ROW 0 HAS TOO MANY ELEMS"},
		// a failed load frees the grid
		{"[gridsize()]", "0 0"},
		{"[gridset(1,1,x)]", "#-1 NO GRID"},
		{"[grid()]", "#-1 NO GRID"},
	})
}

// --- crypt / checkpass ---

func TestFnCrypt(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[crypt(password,ab)]")
	if want := mushcrypt.Crypt("password", "ab"); got != want {
		t.Errorf("crypt = %q, want %q", got, want)
	}
	if !strings.HasPrefix(got, "ab") || len(got) != 13 {
		t.Errorf("crypt output shape = %q", got)
	}
	// A short salt falls back to XX.
	if got, want := e.eval("[crypt(x,a)]"), mushcrypt.Crypt("x", "XX"); got != want {
		t.Errorf("crypt short salt = %q, want %q", got, want)
	}
	if got := e.eval("[crypt(,ab)]"); got != "" {
		t.Errorf("crypt empty text = %q, want empty", got)
	}
}

func TestFnCheckpass(t *testing.T) {
	e := newEvalTestEnv(t)
	hash := mushcrypt.Crypt("sesame", "XX")
	e.db.Objects[3].Attrs = append(e.db.Objects[3].Attrs,
		gamedb.Attribute{Number: 5, Value: "\x013:0:" + hash},
	)
	e.runTable(t, map[string]string{
		"[checkpass(#3,sesame)]": "1",
		"[checkpass(#3,wrong)]":  "0",
		"[checkpass(#2,x)]":      "#-1 NOT FOUND", // not a player
	})
	// Plaintext passwords from old databases still match.
	e.db.Objects[1].Attrs = append(e.db.Objects[1].Attrs,
		gamedb.Attribute{Number: 5, Value: "\x011:0:letmein"},
	)
	if got := e.eval("[checkpass(#1,letmein)]"); got != "1" {
		t.Errorf("plaintext checkpass = %q, want '1'", got)
	}
	// Non-wizards may not probe passwords.
	e.ctx.Player = 3
	if got := e.eval("[checkpass(#3,sesame)]"); got != "#-1 PERMISSION DENIED" {
		t.Errorf("non-wizard checkpass = %q", got)
	}
}
