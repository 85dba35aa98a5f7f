package functions

import (
	"strings"
	"testing"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// testWorld implements eval.GameState over the bare database, with
// no-op persistence and no SQL backend.
type testWorld struct {
	db *gamedb.Database
}

func (w *testWorld) LookupPlayer(name string) gamedb.DBRef {
	name = strings.TrimSpace(name)
	if name == "" {
		return gamedb.Nothing
	}
	if name[0] == '*' {
		name = name[1:]
	}
	for _, obj := range w.db.Objects {
		if obj.ObjType() == gamedb.TypePlayer && strings.EqualFold(obj.Name, name) {
			return obj.DBRef
		}
	}
	return gamedb.Nothing
}

func (w *testWorld) Controls(player, target gamedb.DBRef) bool {
	p, ok := w.db.Objects[player]
	if !ok {
		return false
	}
	t, ok := w.db.Objects[target]
	if !ok {
		return false
	}
	if p.HasFlag(gamedb.FlagWizard) {
		return true
	}
	return t.Owner == player || t.Owner == p.Owner
}

func (w *testWorld) SetAttrByName(obj gamedb.DBRef, attrName string, value string) {
	num := -1
	for n, name := range gamedb.WellKnownAttrs {
		if strings.EqualFold(name, attrName) {
			num = n
			break
		}
	}
	if num < 0 {
		if def, ok := w.db.AttrByName[attrName]; ok {
			num = def.Number
		} else {
			num = w.db.NextAttr
			w.db.NextAttr++
			w.db.AddAttrDef(num, attrName, 0)
		}
	}
	o, ok := w.db.Objects[obj]
	if !ok {
		return
	}
	for i := range o.Attrs {
		if o.Attrs[i].Number == num {
			if value == "" {
				o.Attrs = append(o.Attrs[:i], o.Attrs[i+1:]...)
			} else {
				o.Attrs[i].Value = value
			}
			return
		}
	}
	if value != "" {
		o.Attrs = append(o.Attrs, gamedb.Attribute{Number: num, Value: value})
	}
}

func (w *testWorld) GetAttrTextGS(obj gamedb.DBRef, attrNum int) string {
	current := obj
	for depth := 0; depth < 10; depth++ {
		o, ok := w.db.Objects[current]
		if !ok {
			return ""
		}
		for _, attr := range o.Attrs {
			if attr.Number == attrNum {
				return eval.StripAttrPrefix(attr.Value)
			}
		}
		if o.Parent == gamedb.Nothing {
			return ""
		}
		current = o.Parent
	}
	return ""
}

func (w *testWorld) CanReadAttrGS(player, obj gamedb.DBRef, attrNum int, rawValue string) bool {
	if player == obj {
		return true
	}
	return w.Controls(player, obj)
}

func (w *testWorld) ExecuteSQL(player gamedb.DBRef, query, rowDelim, fieldDelim string) string {
	return "#-1 SQL NOT CONFIGURED"
}

func (w *testWorld) EscapeSQL(input string) string {
	return strings.ReplaceAll(input, "'", "''")
}

func (w *testWorld) PersistStructDef(player gamedb.DBRef, name string, def *gamedb.StructDef) {}

func (w *testWorld) PersistStructInstance(player gamedb.DBRef, name string, inst *gamedb.StructInstance) {
}

// evalTestEnv sets up an EvalContext with a richer test database.
// Objects:
//   #0 Room Zero (ROOM) - parent=#6
//   #1 Wizard (PLAYER, WIZARD) in #0, home=#0
//   #2 TestObject (THING) in #0, owner=#1, parent=#6
//   #3 Bob (PLAYER) in #0, home=#0
//   #4 Other Room (ROOM)
//   #5 Container (THING, ENTER_OK) in #0
//   #6 Parent Room (ROOM) - has DESC
//   #7 North Exit (EXIT) in #0, links to #4, name "North;n"
type evalTestEnv struct {
	db  *gamedb.Database
	ctx *eval.EvalContext
}

func newEvalTestEnv(t *testing.T) *evalTestEnv {
	t.Helper()
	db := gamedb.NewDatabase()

	// Room #0
	db.Objects[0] = &gamedb.Object{
		DBRef: 0, Name: "Room Zero",
		Location: gamedb.Nothing, Contents: 1, Exits: 7,
		Link: gamedb.Nothing, Next: gamedb.Nothing,
		Owner: 1, Parent: 6, Zone: gamedb.Nothing,
		Flags: [3]int{int(gamedb.TypeRoom), 0, 0},
	}

	// Wizard #1
	db.Objects[1] = &gamedb.Object{
		DBRef: 1, Name: "Wizard",
		Location: 0, Contents: gamedb.Nothing, Exits: gamedb.Nothing,
		Link: 0, Next: 2,
		Owner: 1, Parent: gamedb.Nothing, Zone: gamedb.Nothing,
		Pennies: 1000,
		Flags:   [3]int{int(gamedb.TypePlayer) | gamedb.FlagWizard, 0, 0},
	}

	// TestObject #2
	db.Objects[2] = &gamedb.Object{
		DBRef: 2, Name: "TestObject",
		Location: 0, Contents: gamedb.Nothing, Exits: gamedb.Nothing,
		Link: gamedb.Nothing, Next: 3,
		Owner: 1, Parent: 6, Zone: gamedb.Nothing,
		Flags: [3]int{int(gamedb.TypeThing), 0, 0},
	}

	// Bob #3
	db.Objects[3] = &gamedb.Object{
		DBRef: 3, Name: "Bob",
		Location: 0, Contents: gamedb.Nothing, Exits: gamedb.Nothing,
		Link: 0, Next: 5,
		Owner: 3, Parent: gamedb.Nothing, Zone: gamedb.Nothing,
		Pennies: 100,
		Flags:   [3]int{int(gamedb.TypePlayer), 0, 0},
	}

	// Other Room #4
	db.Objects[4] = &gamedb.Object{
		DBRef: 4, Name: "Other Room",
		Location: gamedb.Nothing, Contents: gamedb.Nothing, Exits: gamedb.Nothing,
		Link: gamedb.Nothing, Next: gamedb.Nothing,
		Owner: 1, Parent: gamedb.Nothing, Zone: gamedb.Nothing,
		Flags: [3]int{int(gamedb.TypeRoom), 0, 0},
	}

	// Container #5
	db.Objects[5] = &gamedb.Object{
		DBRef: 5, Name: "Container",
		Location: 0, Contents: gamedb.Nothing, Exits: gamedb.Nothing,
		Link: gamedb.Nothing, Next: gamedb.Nothing,
		Owner: 1, Parent: gamedb.Nothing, Zone: gamedb.Nothing,
		Flags: [3]int{int(gamedb.TypeThing) | gamedb.FlagEnterOK, 0, 0},
	}

	// Parent Room #6
	db.Objects[6] = &gamedb.Object{
		DBRef: 6, Name: "Parent Room",
		Location: gamedb.Nothing, Contents: gamedb.Nothing, Exits: gamedb.Nothing,
		Link: gamedb.Nothing, Next: gamedb.Nothing,
		Owner: 1, Parent: gamedb.Nothing, Zone: gamedb.Nothing,
		Flags: [3]int{int(gamedb.TypeRoom), 0, 0},
		Attrs: []gamedb.Attribute{
			{Number: 6, Value: "\x011:0:Inherited desc"},
		},
	}

	// North Exit #7 - from Room Zero to Other Room
	db.Objects[7] = &gamedb.Object{
		DBRef: 7, Name: "North;n",
		Location: 4, Contents: gamedb.Nothing, Exits: 0,
		Link: gamedb.Nothing, Next: gamedb.Nothing,
		Owner: 1, Parent: gamedb.Nothing, Zone: gamedb.Nothing,
		Flags: [3]int{int(gamedb.TypeExit), 0, 0},
	}

	// VA (attr 95) on Wizard
	db.Objects[1].Attrs = append(db.Objects[1].Attrs,
		gamedb.Attribute{Number: 95, Value: "\x011:0:hello from VA"},
	)

	// User attrs on #2 for u()/map()/filter()/fold()
	db.AddAttrDef(256, "TESTFN", 0)
	db.Objects[2].Attrs = append(db.Objects[2].Attrs,
		gamedb.Attribute{Number: 256, Value: "\x011:0:[ucstr(%0)]"},
	)
	db.AddAttrDef(257, "ADDFN", 0)
	db.Objects[2].Attrs = append(db.Objects[2].Attrs,
		gamedb.Attribute{Number: 257, Value: "\x011:0:[add(%0,%1)]"},
	)
	db.AddAttrDef(258, "FILTERGT2", 0)
	db.Objects[2].Attrs = append(db.Objects[2].Attrs,
		gamedb.Attribute{Number: 258, Value: "\x011:0:[gt(%0,2)]"},
	)

	// DESC on Wizard
	db.Objects[1].Attrs = append(db.Objects[1].Attrs,
		gamedb.Attribute{Number: 6, Value: "\x011:0:A powerful wizard."},
	)

	// Custom attr MY_ATTR on Wizard
	db.AddAttrDef(300, "MY_ATTR", 0)
	db.Objects[1].Attrs = append(db.Objects[1].Attrs,
		gamedb.Attribute{Number: 300, Value: "\x011:0:custom value"},
	)

	ctx := eval.NewEvalContext(db)
	ctx.Player = 1
	ctx.Caller = 1
	ctx.Cause = 1
	ctx.GameState = &testWorld{db: db}
	ctx.MudName = "TestMUSH"
	RegisterAll(ctx)

	return &evalTestEnv{db: db, ctx: ctx}
}

func (e *evalTestEnv) eval(expr string) string {
	e.ctx.FuncInvkCtr = 0
	e.ctx.FuncNestLev = 0
	return e.ctx.Exec(expr, eval.EvFCheck|eval.EvEval, nil)
}

func (e *evalTestEnv) runTable(t *testing.T, tests map[string]string) {
	t.Helper()
	for expr, want := range tests {
		got := e.eval(expr)
		if got != want {
			t.Errorf("%s = %q, want %q", expr, got, want)
		}
	}
}

// --- Object functions ---

func TestFnName(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[name(#1)]":  "Wizard",
		"[name(#0)]":  "Room Zero",
		"[name(#7)]":  "North", // exit returns first alias
		"[name(me)]":  "Wizard",
		"[name(#99)]": "#-1 NOT FOUND",
	})
}

func TestFnNumLocOwner(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[num(me)]":   "#1",
		"[num(#0)]":   "#0",
		"[loc(#1)]":   "#0",
		"[loc(me)]":   "#0",
		"[owner(#2)]": "#1",
		"[owner(#3)]": "#3",
		"[owner(me)]": "#1",
	})
}

func TestFnType(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[type(#0)]": "ROOM",
		"[type(#1)]": "PLAYER",
		"[type(#2)]": "THING",
		"[type(#7)]": "EXIT",
	})
}

func TestFnHasflag(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[hasflag(#1,WIZARD)]":   "1",
		"[hasflag(#1,DARK)]":     "0",
		"[hasflag(#1,PLAYER)]":   "1",
		"[hasflag(#0,ROOM)]":     "1",
		"[hasflag(#2,THING)]":    "1",
		"[hasflag(#5,ENTER_OK)]": "1",
	})
}

func TestFnHastype(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[hastype(#1,PLAYER)]": "1",
		"[hastype(#1,ROOM)]":   "0",
		"[hastype(#0,ROOM)]":   "1",
		"[hastype(#2,THING)]":  "1",
		"[hastype(#7,EXIT)]":   "1",
	})
}

func TestFnHasattr(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[hasattr(#1,DESC)]":    "1",
		"[hasattr(#1,MY_ATTR)]": "1",
		"[hasattr(#1,NOSUCH)]":  "0",
		"[hasattr(#3,DESC)]":    "0",
	})
}

func TestFnGetXget(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[get(#1/DESC)]":     "A powerful wizard.",
		"[get(#1/MY_ATTR)]":  "custom value",
		"[xget(#1,DESC)]":    "A powerful wizard.",
		"[xget(#1,MY_ATTR)]": "custom value",
	})
}

func TestFnV(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[v(a)]":    "hello from VA",
		"[v(desc)]": "A powerful wizard.",
	})
}

func TestFnConExitNext(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[con(#0)]":  "#1",
		"[exit(#0)]": "#7",
		"[next(#1)]": "#2",
		"[next(#2)]": "#3",
	})
}

func TestFnLcon(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[lcon(#0)]")
	for _, ref := range []string{"#1", "#2", "#3", "#5"} {
		if !strings.Contains(got, ref) {
			t.Errorf("lcon(#0) = %q, expected %s", got, ref)
		}
	}
}

func TestFnLexits(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[lexits(#0)]"); got != "#7" {
		t.Errorf("lexits(#0) = %q, want '#7'", got)
	}
}

func TestFnLattrNattr(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[lattr(#1)]")
	if !strings.Contains(got, "MY_ATTR") {
		t.Errorf("lattr(#1) = %q, expected MY_ATTR in list", got)
	}
	if got := e.eval("[nattr(#1)]"); got != "3" {
		t.Errorf("nattr(#1) = %q, want '3'", got)
	}
}

func TestFnHomeParentZone(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[home(#1)]":   "#0",
		"[parent(#0)]": "#6",
		"[parent(#1)]": "#-1",
		"[zone(#0)]":   "#-1",
	})
}

func TestFnControls(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[controls(#1,#0)]": "1",
		"[controls(#1,#3)]": "1",
		"[controls(#3,#1)]": "0",
		"[controls(#3,#3)]": "1",
	})
}

func TestFnRoom(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[room(#1)]": "#0",
		"[room(#0)]": "#0",
		"[room(#2)]": "#0",
	})
}

func TestFnNearby(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[nearby(#1,#2)]": "1",
		"[nearby(#1,#0)]": "1",
		"[nearby(#1,#4)]": "0",
	})
}

func TestFnChildren(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[children(#6)]")
	if !strings.Contains(got, "#0") || !strings.Contains(got, "#2") {
		t.Errorf("children(#6) = %q, expected #0 and #2", got)
	}
}

func TestFnLparent(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[lparent(#0)]")
	if !strings.Contains(got, "#0") || !strings.Contains(got, "#6") {
		t.Errorf("lparent(#0) = %q, expected '#0 #6'", got)
	}
}

func TestFnElock(t *testing.T) {
	e := newEvalTestEnv(t)
	// No lock set: everyone passes.
	e.runTable(t, map[string]string{
		"[elock(#0,#1)]": "1",
		"[elock(#0,#3)]": "1",
	})
	// Simple dbref lock on the container.
	e.db.Objects[5].Attrs = append(e.db.Objects[5].Attrs,
		gamedb.Attribute{Number: 42, Value: "\x011:0:#3"},
	)
	e.runTable(t, map[string]string{
		"[elock(#5,#3)]": "1",
		"[elock(#5,#1)]": "0",
	})
	// Negation and disjunction.
	e.db.Objects[5].Attrs[len(e.db.Objects[5].Attrs)-1].Value = "\x011:0:!#3|#1"
	e.runTable(t, map[string]string{
		"[elock(#5,#1)]": "1",
		"[elock(#5,#3)]": "0",
	})
	// Attribute lock with a wildcard value.
	e.db.Objects[5].Attrs[len(e.db.Objects[5].Attrs)-1].Value = "\x011:0:my_attr:custom*"
	e.runTable(t, map[string]string{
		"[elock(#5,#1)]": "1",
		"[elock(#5,#3)]": "0",
	})
}

func TestFnLock(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[lock(#5)]"); got != "" {
		t.Errorf("lock(#5) with no lock = %q, want empty", got)
	}
	e.db.Objects[5].Attrs = append(e.db.Objects[5].Attrs,
		gamedb.Attribute{Number: 42, Value: "\x011:0:#3"},
	)
	if got := e.eval("[lock(#5)]"); got != "#3" {
		t.Errorf("lock(#5) = %q, want '#3'", got)
	}
}

func TestFnDefault(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[default(#1/DESC,fallback)]":   "A powerful wizard.",
		"[default(#1/NOSUCH,fallback)]": "fallback",
	})
}

func TestFnObjeval(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[objeval(#3,[num(me)])]"); got != "#3" {
		t.Errorf("objeval = %q, want '#3'", got)
	}
}

func TestFnPmatch(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[pmatch(me)]":     "#1",
		"[pmatch(Wizard)]": "#1",
		"[pmatch(Bob)]":    "#3",
	})
}

func TestParentChainAttrInheritance(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[get(#2/DESC)]"); got != "Inherited desc" {
		t.Errorf("get(#2/DESC) = %q, want 'Inherited desc'", got)
	}
}

// --- U / ULOCAL / Map / Filter / Fold ---

func TestFnU(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[u(#2/TESTFN,hello)]"); got != "HELLO" {
		t.Errorf("u() = %q, want 'HELLO'", got)
	}
}

func TestFnUlocal(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[setq(0,original)][ulocal(#2/TESTFN,test)][r(0)]")
	if !strings.Contains(got, "original") {
		t.Errorf("ulocal register preservation: got %q, expected 'original' in output", got)
	}
}

func TestFnMap(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[map(#2/TESTFN,a b c)]"); got != "A B C" {
		t.Errorf("map() = %q, want 'A B C'", got)
	}
}

func TestFnFilter(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[filter(#2/FILTERGT2,1 2 3 4 5)]"); got != "3 4 5" {
		t.Errorf("filter() = %q, want '3 4 5'", got)
	}
}

func TestFnFold(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[fold(#2/ADDFN,1 2 3 4)]"); got != "10" {
		t.Errorf("fold() = %q, want '10'", got)
	}
}

// --- Iteration ---

func TestFnItextInum(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[iter(x y z,[itext(0)]-[inum(0)])]"); got != "x-0 y-1 z-2" {
		t.Errorf("itext/inum = %q, want 'x-0 y-1 z-2'", got)
	}
}

func TestFnIlev(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[iter(a,[ilev()])]"); got != "0" {
		t.Errorf("ilev = %q, want '0'", got)
	}
}

func TestFnParse(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[parse(a b c,[strlen(##)])]"); got != "1 1 1" {
		t.Errorf("parse() = %q, want '1 1 1'", got)
	}
}

// --- Side effects ---

func TestFnPemitNotification(t *testing.T) {
	e := newEvalTestEnv(t)
	e.eval("[pemit(#1,hello)]")
	if len(e.ctx.Notifications) == 0 {
		t.Fatalf("pemit: expected notification, got none")
	}
	n := e.ctx.Notifications[0]
	if n.Target != 1 || n.Message != "hello" {
		t.Errorf("pemit: notification = %+v", n)
	}
}

func TestFnRemitNotification(t *testing.T) {
	e := newEvalTestEnv(t)
	e.eval("[remit(#0,broadcast)]")
	if len(e.ctx.Notifications) == 0 {
		t.Errorf("remit: expected notification, got none")
	}
}

func TestFnThinkNotification(t *testing.T) {
	e := newEvalTestEnv(t)
	e.eval("[think(thinking...)]")
	if len(e.ctx.Notifications) == 0 {
		t.Fatalf("think: expected notification, got none")
	}
	if e.ctx.Notifications[0].Target != 1 {
		t.Errorf("think: should target self (#1)")
	}
}

// --- Randomness ---

func TestFnRand(t *testing.T) {
	e := newEvalTestEnv(t)
	for i := 0; i < 20; i++ {
		got := e.eval("[rand(10)]")
		if got < "0" || got > "9" {
			t.Errorf("rand(10) = %q, expected 0-9", got)
		}
	}
	if got := e.eval("[rand(0)]"); got != "0" {
		t.Errorf("rand(0) = %q, want '0'", got)
	}
}

func TestFnDie(t *testing.T) {
	e := newEvalTestEnv(t)
	for i := 0; i < 20; i++ {
		got := e.eval("[die(2,6)]")
		n := 0
		for _, ch := range got {
			if ch >= '0' && ch <= '9' {
				n = n*10 + int(ch-'0')
			}
		}
		if n < 2 || n > 12 {
			t.Errorf("die(2,6) = %q (%d), expected 2-12", got, n)
		}
	}
	if got := e.eval("[die(0,6)]"); got != "0" {
		t.Errorf("die(0,6) = %q, want '0'", got)
	}
}

func TestFnLrand(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[lrand(1,1,3,&)]"); got != "1&1&1" {
		t.Errorf("lrand(1,1,3,&) = %q, want '1&1&1'", got)
	}
	got := e.eval("[lrand(1,6,4)]")
	if len(strings.Fields(got)) != 4 {
		t.Errorf("lrand(1,6,4) = %q, expected 4 words", got)
	}
}

// --- Lists / strings ---

func TestFnLnum(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[lnum(5)]":   "0 1 2 3 4",
		"[lnum(2,6)]": "2 3 4 5",
		"[lnum(5,2)]": "5 4 3",
	})
}

func TestFnReplace(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[replace(a b c d,2 4,X Y)]"); got != "a X c Y" {
		t.Errorf("replace() = %q, want 'a X c Y'", got)
	}
}

func TestFnDelete(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[delete(abcdef,2,3)]": "abf",
		"[delete(abcdef,0,2)]": "cdef",
		"[delete(hello,5,1)]":  "hello",
	})
}

func TestFnScramble(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[scramble(abcde)]")
	if len(got) != 5 {
		t.Errorf("scramble: expected 5 chars, got %d: %q", len(got), got)
	}
	for _, ch := range "abcde" {
		if !strings.ContainsRune(got, ch) {
			t.Errorf("scramble: missing char '%c' in %q", ch, got)
		}
	}
}

func TestFnShuffle(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[shuffle(a b c d e)]")
	if len(strings.Fields(got)) != 5 {
		t.Errorf("shuffle: expected 5 words, got %q", got)
	}
}

func TestFnSplice(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[splice(a b c,x y z,b)]"); got != "a y c" {
		t.Errorf("splice = %q, want 'a y c'", got)
	}
}

func TestFnItemize(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[itemize(a)]":          "a",
		"[itemize(a b)]":        "a and b",
		"[itemize(a b c)]":      "a, b, and c",
		"[itemize(a b c d)]":    "a, b, c, and d",
		"[itemize(a b c, ,or)]": "a, b, or c",
	})
}

// --- Layout ---

func TestFnWrap(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[wrap(hello world how are you,10)]")
	if !strings.Contains(got, "\r\n") || !strings.Contains(got, "hello") {
		t.Errorf("wrap() = %q, expected line breaks", got)
	}
}

func TestFnColumns(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[columns(a b c d,10, ,40)]")
	if !strings.Contains(got, "a") || !strings.Contains(got, "d") {
		t.Errorf("columns() = %q, expected items", got)
	}
}

func TestFnLjustRjustCenter(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[ljust(hi,6)]")
	if len(got) != 6 || !strings.HasPrefix(got, "hi") {
		t.Errorf("ljust(hi,6) = %q (len=%d)", got, len(got))
	}
	got = e.eval("[rjust(hi,6)]")
	if len(got) != 6 || !strings.HasSuffix(got, "hi") {
		t.Errorf("rjust(hi,6) = %q (len=%d)", got, len(got))
	}
	got = e.eval("[center(hi,8)]")
	if len(got) != 8 || !strings.Contains(got, "hi") {
		t.Errorf("center(hi,8) = %q (len=%d)", got, len(got))
	}
}

// --- Escape / secure and the trailing-argument join ---

func TestFnEscape(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[escape(hello)]")
	if !strings.HasPrefix(got, "\\h") {
		t.Errorf("escape(hello) = %q, expected \\h prefix", got)
	}
}

func TestFnSecure(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[secure(hello)]"); got != "hello" {
		t.Errorf("secure(hello) = %q, want 'hello'", got)
	}
	if got := e.eval("[strlen([secure(hello)])]"); got != "5" {
		t.Errorf("strlen(secure(hello)) = %q, want '5'", got)
	}
}

func TestTrailingArgJoin(t *testing.T) {
	e := newEvalTestEnv(t)
	// Single-argument functions rejoin surplus comma pieces instead of
	// rejecting the call.
	if got := e.eval("[s(a,b)]"); got != "a,b" {
		t.Errorf("s(a,b) = %q, want 'a,b'", got)
	}
	if got := e.eval("[strlen([s(a,b)])]"); got != "3" {
		t.Errorf("strlen(s(a,b)) = %q, want '3'", got)
	}
}

// --- ANSI ---

func TestFnAnsi(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[ansi(r,hello)]")
	if !strings.Contains(got, "\033[31m") || !strings.Contains(got, "hello") || !strings.Contains(got, "\033[0m") {
		t.Errorf("ansi(r,hello) = %q, expected ANSI red codes", got)
	}
}

func TestFnStripansi(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[stripansi([ansi(r,hello)])]"); got != "hello" {
		t.Errorf("stripansi = %q, want 'hello'", got)
	}
}

// --- Misc ---

func TestFnValid(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[valid(attrname,MY_ATTR)]":    "1",
		"[valid(attrname,bad name)]":   "0",
		"[valid(objectname,Foo)]":      "1",
		"[valid(objectname,#123)]":     "0",
		"[valid(playername,Bob)]":      "1",
		"[valid(playername,has;semi)]": "0",
	})
}

func TestFnTimeSecs(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[time()]"); got == "" {
		t.Errorf("time() returned empty")
	}
	got := e.eval("[secs()]")
	if got == "" || got[0] < '0' || got[0] > '9' {
		t.Errorf("secs() = %q, expected number", got)
	}
}

func TestFnTimefmt(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[timefmt(%%Y,86400)]"); got != "1970" {
		t.Errorf("timefmt(%%%%Y,86400) = %q, want '1970'", got)
	}
}

func TestFnMudname(t *testing.T) {
	e := newEvalTestEnv(t)
	if got := e.eval("[mudname()]"); got != "TestMUSH" {
		t.Errorf("mudname() = %q, want 'TestMUSH'", got)
	}
}

// --- Dispatcher behavior ---

func TestFnArgCountError(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[abs(1,2)]")
	if got != "#-1 FUNCTION (ABS) EXPECTS 1 ARGUMENTS BUT GOT 2" {
		t.Errorf("abs(1,2) = %q", got)
	}
}

func TestFnNotFound(t *testing.T) {
	e := newEvalTestEnv(t)
	got := e.eval("[xyzzy(1)]")
	if got != "#-1 FUNCTION (XYZZY) NOT FOUND" {
		t.Errorf("unknown function = %q", got)
	}
}

func TestInvocationLimit(t *testing.T) {
	e := newEvalTestEnv(t)
	e.ctx.FuncInvkLim = 2
	got := e.ctx.Exec("[add(1,1)][add(2,2)]", eval.EvFCheck|eval.EvEval, nil)
	if got != "2#-1 FUNCTION INVOCATION LIMIT EXCEEDED" {
		t.Errorf("invocation limit output = %q", got)
	}
}

func TestRecursionLimit(t *testing.T) {
	e := newEvalTestEnv(t)
	e.ctx.FuncNestLim = 1
	got := e.ctx.Exec("[add(1,2)]", eval.EvFCheck|eval.EvEval, nil)
	if got != "#-1 FUNCTION RECURSION LIMIT EXCEEDED" {
		t.Errorf("recursion limit output = %q", got)
	}
}

// --- @function ---

func TestDoFunction(t *testing.T) {
	e := newEvalTestEnv(t)
	e.ctx.DoFunction(1, 0, "myfunc", "#2/TESTFN")
	if got := e.eval("[myfunc(abc)]"); got != "ABC" {
		t.Errorf("user function = %q, want 'ABC'", got)
	}
	e.ctx.Notifications = nil
	e.ctx.DoFunction(1, 0, "add", "#2/TESTFN")
	if len(e.ctx.Notifications) == 0 ||
		e.ctx.Notifications[0].Message != "Function already defined in builtin function table." {
		t.Errorf("builtin shadow: notifications = %+v", e.ctx.Notifications)
	}
}

// --- Complex expressions ---

func TestComplexNested(t *testing.T) {
	e := newEvalTestEnv(t)
	e.runTable(t, map[string]string{
		"[if([eq([add(1,2)],3)],math works,broken)]": "math works",
		"[setq(0,hello)][ucstr([r(0)])]":             "HELLO",
		"[iter(1 2 3,[if([gt(##,1)],big,small)])]":   "small big big",
		"[switch([add(1,1)],1,one,2,two,other)]":     "two",
		"[name(#[add(1,1)])]":                        "TestObject",
		"[words([iter(a b c d,##)])]":                "4",
	})
}
