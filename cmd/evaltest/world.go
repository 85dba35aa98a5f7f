package main

import (
	"strings"

	"github.com/crystal-mush/mushcode/pkg/boltstore"
	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
	"github.com/crystal-mush/mushcode/pkg/sqlstore"
)

// world implements eval.GameState over the in-memory database, with
// optional write-through persistence to bolt and a SQL bridge.
type world struct {
	db    *gamedb.Database
	store *boltstore.Store
	sqldb *sqlstore.Store
}

// LookupPlayer finds a player by name (exact and partial match).
func (w *world) LookupPlayer(name string) gamedb.DBRef {
	name = strings.TrimSpace(name)
	if name == "" {
		return gamedb.Nothing
	}
	if name[0] == '*' {
		name = name[1:]
	}
	for _, obj := range w.db.Objects {
		if obj.ObjType() == gamedb.TypePlayer && !obj.IsGoing() && strings.EqualFold(obj.Name, name) {
			return obj.DBRef
		}
	}
	nameLower := strings.ToLower(name)
	var match gamedb.DBRef = gamedb.Nothing
	matchCount := 0
	for _, obj := range w.db.Objects {
		if obj.ObjType() == gamedb.TypePlayer && !obj.IsGoing() {
			if strings.HasPrefix(strings.ToLower(obj.Name), nameLower) {
				match = obj.DBRef
				matchCount++
			}
		}
	}
	if matchCount == 1 {
		return match
	}
	if matchCount > 1 {
		return gamedb.Ambiguous
	}
	return gamedb.Nothing
}

// Controls returns true if player controls target: wizards control
// everything, otherwise ownership decides.
func (w *world) Controls(player, target gamedb.DBRef) bool {
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

// setAttr stores an attribute value on an object; empty value deletes.
func (w *world) setAttr(obj gamedb.DBRef, num int, value string) {
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
			w.persist(o)
			return
		}
	}
	if value == "" {
		return
	}
	o.Attrs = append(o.Attrs, gamedb.Attribute{Number: num, Value: value})
	w.persist(o)
}

func (w *world) persist(o *gamedb.Object) {
	if w.store != nil {
		w.store.PutObject(o)
	}
}

// SetAttrByName sets an attribute by name, creating a definition for
// unknown names.
func (w *world) SetAttrByName(obj gamedb.DBRef, attrName string, value string) {
	for num, name := range gamedb.WellKnownAttrs {
		if strings.EqualFold(name, attrName) {
			w.setAttr(obj, num, value)
			return
		}
	}
	if def, ok := w.db.AttrByName[attrName]; ok {
		w.setAttr(obj, def.Number, value)
		return
	}
	newNum := w.db.NextAttr
	w.db.NextAttr++
	w.db.AddAttrDef(newNum, attrName, 0)
	if w.store != nil {
		if def, ok := w.db.AttrNames[newNum]; ok {
			w.store.PutAttrDef(def)
		}
		w.store.PutMeta()
	}
	w.setAttr(obj, newNum, value)
}

// GetAttrTextGS returns attribute text with a parent-chain walk.
func (w *world) GetAttrTextGS(obj gamedb.DBRef, attrNum int) string {
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

// CanReadAttrGS checks attribute read permission. The harness model is
// simple: you can read attributes on what you control, and anything a
// wizard asks for.
func (w *world) CanReadAttrGS(player, obj gamedb.DBRef, attrNum int, rawValue string) bool {
	if player == obj {
		return true
	}
	return w.Controls(player, obj)
}

// ExecuteSQL runs a query against the SQL store, if one is configured.
func (w *world) ExecuteSQL(player gamedb.DBRef, query, rowDelim, fieldDelim string) string {
	if w.sqldb == nil {
		return "#-1 SQL NOT CONFIGURED"
	}
	result, err := w.sqldb.Query(query, rowDelim, fieldDelim)
	if err != nil {
		return "#-1 " + strings.ToUpper(err.Error())
	}
	return result
}

// EscapeSQL escapes a string for safe SQL interpolation.
func (w *world) EscapeSQL(input string) string {
	if w.sqldb != nil {
		return w.sqldb.Escape(input)
	}
	return strings.ReplaceAll(input, "'", "''")
}

// PersistStructDef saves or deletes a structure definition in bolt.
func (w *world) PersistStructDef(player gamedb.DBRef, name string, def *gamedb.StructDef) {
	if w.store == nil {
		return
	}
	if def == nil {
		w.store.DeleteStructDef(player, name)
	} else {
		w.store.PutStructDef(player, def)
	}
}

// PersistStructInstance saves or deletes a structure instance in bolt.
func (w *world) PersistStructInstance(player gamedb.DBRef, name string, inst *gamedb.StructInstance) {
	if w.store == nil {
		return
	}
	if inst == nil {
		w.store.DeleteStructInstance(player, name)
	} else {
		w.store.PutStructInstance(player, name, inst)
	}
}
