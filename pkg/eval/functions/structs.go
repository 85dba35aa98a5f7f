package functions

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Structures: named, typed record templates and their instances, both
// owned per-player. Instance data round-trips through attributes via
// read()/write() using a form-feed delimiter.

const genericStructDelim = '\f'

// Structure and component names must fit beside a dbref prefix in an
// SBUF-sized key.
const structNameMax = (eval.SbufSize / 2) - 9

// structDef is a structure template. Component names and type codes
// are stored lowercased.
type structDef struct {
	Name      string
	Comps     []string
	Types     []byte // 'a' any, 'c' char, 'd' dbref, 'i' int, 'f' float, 's' string
	Defaults  []string // nil when the definition carried no defaults
	Delim     byte
	Instances int
}

func (d *structDef) needCheck() bool {
	for _, t := range d.Types {
		if t != 'a' {
			return true
		}
	}
	return false
}

func (d *structDef) compIndex(name string) int {
	name = strings.ToLower(name)
	for i, c := range d.Comps {
		if c == name {
			return i
		}
	}
	return -1
}

type structInstance struct {
	Def    *structDef
	Values []string
}

// structStore holds every player's definitions and instances.
type structStore struct {
	mu        sync.RWMutex
	Structs   map[gamedb.DBRef]map[string]*structDef
	Instances map[gamedb.DBRef]map[string]*structInstance
}

var globalStructs = &structStore{
	Structs:   make(map[gamedb.DBRef]map[string]*structDef),
	Instances: make(map[gamedb.DBRef]map[string]*structInstance),
}

// LoadStructStore populates the in-memory structure store from
// persisted data, relinking instances to their definitions.
func LoadStructStore(defs map[gamedb.DBRef]map[string]*gamedb.StructDef, insts map[gamedb.DBRef]map[string]*gamedb.StructInstance) {
	globalStructs.mu.Lock()
	defer globalStructs.mu.Unlock()

	for player, playerDefs := range defs {
		if globalStructs.Structs[player] == nil {
			globalStructs.Structs[player] = make(map[string]*structDef)
		}
		for name, d := range playerDefs {
			delim := byte(' ')
			if d.Delim != "" {
				delim = d.Delim[0]
			}
			globalStructs.Structs[player][name] = &structDef{
				Name:     d.Name,
				Comps:    d.Components,
				Types:    d.Types,
				Defaults: d.Defaults,
				Delim:    delim,
			}
		}
	}

	for player, playerInsts := range insts {
		if globalStructs.Instances[player] == nil {
			globalStructs.Instances[player] = make(map[string]*structInstance)
		}
		playerDefs := globalStructs.Structs[player]
		if playerDefs == nil {
			continue
		}
		for name, inst := range playerInsts {
			def, ok := playerDefs[inst.DefName]
			if !ok {
				continue // orphaned instance
			}
			def.Instances++
			globalStructs.Instances[player][name] = &structInstance{
				Def:    def,
				Values: inst.Values,
			}
		}
	}
}

func toPersistedDef(d *structDef) *gamedb.StructDef {
	return &gamedb.StructDef{
		Name:       d.Name,
		Components: d.Comps,
		Types:      d.Types,
		Defaults:   d.Defaults,
		Delim:      string(d.Delim),
	}
}

func toPersistedInst(inst *structInstance) *gamedb.StructInstance {
	return &gamedb.StructInstance{
		DefName: inst.Def.Name,
		Values:  inst.Values,
	}
}

func playerStructs(player gamedb.DBRef) map[string]*structDef {
	if globalStructs.Structs[player] == nil {
		globalStructs.Structs[player] = make(map[string]*structDef)
	}
	return globalStructs.Structs[player]
}

func playerInstances(player gamedb.DBRef) map[string]*structInstance {
	if globalStructs.Instances[player] == nil {
		globalStructs.Instances[player] = make(map[string]*structInstance)
	}
	return globalStructs.Instances[player]
}

// typeOK checks a value against a component type code. Only the 'a'
// (any) type passes everything.
func typeOK(ctx *eval.EvalContext, code byte, val string) bool {
	switch code {
	case 'c':
		return len(val) == 1
	case 'd':
		if len(val) < 2 || val[0] != '#' {
			return false
		}
		n, err := strconv.Atoi(val[1:])
		if err != nil {
			return false
		}
		_, ok := ctx.DB.Objects[gamedb.DBRef(n)]
		return ok
	case 'i':
		_, err := strconv.Atoi(val)
		return err == nil
	case 'f':
		_, err := strconv.ParseFloat(val, 64)
		return err == nil
	case 's':
		return !strings.ContainsAny(val, " \t\r\n")
	}
	return true
}

// structFail notifies the player and emits the conventional '0'.
func structFail(ctx *eval.EvalContext, buf *strings.Builder, msg string) {
	notifyQuiet(ctx, ctx.Player, msg)
	eval.SafeChr('0', buf)
}

// fnStructure defines a structure template.
// structure(<name>, <components>, <types>[, <defaults>[, <isep>[, <odelim>]]])
func fnStructure(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep, osep eval.Delim
	if !delimIn(ctx, buf, args, 5, &isep) {
		return
	}
	if len(args) < 6 {
		osep = isep
	} else if !ctx.DelimCheck(buf, args, 6, &osep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}

	// The output delimiter is stored as a single character; null and
	// line delimiters would corrupt unload() output.
	if osep.Len > 1 || osep.Str[0] == '\x00' || osep.Str[0] == '\r' {
		structFail(ctx, buf, "You cannot use that output delimiter.")
		return
	}

	globalStructs.mu.Lock()
	defer globalStructs.mu.Unlock()

	structs := playerStructs(ctx.Player)
	if len(structs) > ctx.StructLim {
		structFail(ctx, buf, "Too many structures.")
		return
	}
	if len(args[0]) > structNameMax {
		structFail(ctx, buf, "Structure name is too long.")
		return
	}
	if strings.Contains(args[0], ".") {
		structFail(ctx, buf, "Structure names cannot contain periods.")
		return
	}
	name := strings.ToLower(args[0])
	if _, exists := structs[name]; exists {
		structFail(ctx, buf, "Structure is already defined.")
		return
	}

	comps := splitList(args[1], eval.SpaceDelim)
	if len(comps) < 1 {
		structFail(ctx, buf, "There must be at least one component.")
		return
	}
	for i := range comps {
		if len(comps[i]) > structNameMax {
			structFail(ctx, buf, "Component name is too long.")
			return
		}
		comps[i] = strings.ToLower(comps[i])
	}

	typeWords := splitList(args[2], eval.SpaceDelim)
	types := make([]byte, len(typeWords))
	for i, t := range typeWords {
		switch t[0] {
		case 'a', 'A', 'c', 'C', 'd', 'D', 'i', 'I', 'f', 'F', 's', 'S':
			types[i] = t[0] | 0x20
		default:
			structFail(ctx, buf, "Invalid data type specified.")
			return
		}
	}

	var defaults []string
	if len(args) > 3 && args[3] != "" {
		defaults = splitList(args[3], isep)
	}
	if len(comps) != len(types) || (defaults != nil && len(comps) != len(defaults)) {
		structFail(ctx, buf, "List sizes must be identical.")
		return
	}

	def := &structDef{
		Name:     name,
		Comps:    comps,
		Types:    types,
		Defaults: defaults,
		Delim:    osep.Str[0],
	}
	structs[name] = def
	if ctx.GameState != nil {
		ctx.GameState.PersistStructDef(ctx.Player, name, toPersistedDef(def))
	}
	eval.SafeChr('1', buf)
}

// fnConstruct creates an instance, optionally overriding defaults.
// construct(<instance>, <structure>[, <components>, <values>[, <isep>]])
func fnConstruct(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	if len(args) == 3 {
		eval.SafeStr("#-1 FUNCTION (CONSTRUCT) EXPECTS 2 OR 4 OR 5 ARGUMENTS BUT GOT 3", buf)
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 5, &isep) {
		return
	}

	globalStructs.mu.Lock()
	defer globalStructs.mu.Unlock()

	instances := playerInstances(ctx.Player)
	if len(instances) > ctx.InstanceLim {
		structFail(ctx, buf, "Too many instances.")
		return
	}
	if len(args[0]) > structNameMax {
		structFail(ctx, buf, "Instance name is too long.")
		return
	}
	instName := strings.ToLower(args[0])
	if _, exists := instances[instName]; exists {
		structFail(ctx, buf, "That instance has already been defined.")
		return
	}
	def, ok := playerStructs(ctx.Player)[strings.ToLower(args[1])]
	if !ok {
		structFail(ctx, buf, "No such structure.")
		return
	}

	var comps, vals []string
	switch {
	case len(args) > 3 && args[2] != "" && args[3] != "":
		comps = splitList(args[2], eval.SpaceDelim)
		vals = splitList(args[3], isep)
		if len(comps) != len(vals) {
			structFail(ctx, buf, "List sizes must be identical.")
			return
		}
		for i := range comps {
			idx := def.compIndex(comps[i])
			if idx < 0 {
				structFail(ctx, buf, "Invalid component name.")
				return
			}
			if !typeOK(ctx, def.Types[idx], vals[i]) {
				structFail(ctx, buf, "Default value is of invalid type.")
				return
			}
		}
	case (len(args) < 3 || args[2] == "") && (len(args) < 4 || args[3] == ""):
		// Blank initializers are fine.
	default:
		structFail(ctx, buf, "List sizes must be identical.")
		return
	}

	values := make([]string, len(def.Comps))
	copy(values, def.Defaults)
	for i := range comps {
		values[def.compIndex(comps[i])] = vals[i]
	}

	def.Instances++
	inst := &structInstance{Def: def, Values: values}
	instances[instName] = inst
	if ctx.GameState != nil {
		ctx.GameState.PersistStructInstance(ctx.Player, instName, toPersistedInst(inst))
	}
	eval.SafeChr('1', buf)
}

// loadStructure parses delimited text into a new instance. A zero sep
// means "use the structure's own delimiter".
func loadStructure(ctx *eval.EvalContext, buf *strings.Builder, instName, structName, raw string, sep byte) {
	globalStructs.mu.Lock()
	defer globalStructs.mu.Unlock()

	instances := playerInstances(ctx.Player)
	if len(instances) > ctx.InstanceLim {
		structFail(ctx, buf, "Too many instances.")
		return
	}
	if len(instName) > structNameMax {
		structFail(ctx, buf, "Instance name is too long.")
		return
	}
	instName = strings.ToLower(instName)
	if _, exists := instances[instName]; exists {
		structFail(ctx, buf, "That instance has already been defined.")
		return
	}
	def, ok := playerStructs(ctx.Player)[strings.ToLower(structName)]
	if !ok {
		structFail(ctx, buf, "No such structure.")
		return
	}

	if sep == 0 {
		sep = def.Delim
	}
	vals := splitList(raw, eval.Delim{Len: 1, Str: string(sep)})
	if len(vals) != len(def.Comps) {
		structFail(ctx, buf, "Incorrect number of components.")
		return
	}
	for i := range vals {
		if !typeOK(ctx, def.Types[i], vals[i]) {
			structFail(ctx, buf, "Value is of invalid type.")
			return
		}
	}

	def.Instances++
	inst := &structInstance{Def: def, Values: vals}
	instances[instName] = inst
	if ctx.GameState != nil {
		ctx.GameState.PersistStructInstance(ctx.Player, instName, toPersistedInst(inst))
	}
	eval.SafeChr('1', buf)
}

// fnLoadStruct creates an instance from delimited text.
// load(<instance>, <structure>, <text>[, <delim>])
func fnLoadStruct(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	sep := byte(0)
	if len(args) > 3 {
		var isep eval.Delim
		if !ctx.DelimCheck(buf, args, 4, &isep, 0) {
			return
		}
		sep = isep.Str[0]
	}
	loadStructure(ctx, buf, args[0], args[1], args[2], sep)
}

// fnReadStruct creates an instance from attribute text written by
// write(): read(<obj>/<attr>, <instance>, <structure>)
func fnReadStruct(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	parts := strings.SplitN(args[0], "/", 2)
	if len(parts) != 2 {
		eval.SafeChr('0', buf)
		return
	}
	ref := resolveDBRef(ctx, parts[0])
	if ref == gamedb.Nothing {
		eval.SafeChr('0', buf)
		return
	}
	text := getAttrByName(ctx, ref, strings.ToUpper(strings.TrimSpace(parts[1])))
	loadStructure(ctx, buf, args[1], args[2], text, genericStructDelim)
}

// fnDelimit rewrites a delimited attribute as a list joined by an
// arbitrary string: delimit(<obj>/<attr>, <new delim>[, <delim>])
func fnDelimit(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	isep := eval.Delim{Len: 1, Str: string(rune(genericStructDelim))}
	if len(args) > 2 && !ctx.DelimCheck(buf, args, 3, &isep, 0) {
		return
	}
	parts := strings.SplitN(args[0], "/", 2)
	if len(parts) != 2 {
		eval.SafeStr("#-1 PERMISSION DENIED", buf)
		return
	}
	ref := resolveDBRef(ctx, parts[0])
	if ref == gamedb.Nothing {
		eval.SafeStr("#-1 PERMISSION DENIED", buf)
		return
	}
	text := getAttrByName(ctx, ref, strings.ToUpper(strings.TrimSpace(parts[1])))
	joinOut(buf, splitList(text, isep), eval.Delim{Len: len(args[1]), Str: args[1]})
}

// fnZ reads one component of an instance: z(<instance>, <component>)
func fnZ(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	globalStructs.mu.RLock()
	defer globalStructs.mu.RUnlock()

	instances := globalStructs.Instances[ctx.Player]
	if instances == nil {
		return
	}
	inst, ok := instances[strings.ToLower(args[0])]
	if !ok {
		return
	}
	if idx := inst.Def.compIndex(args[1]); idx >= 0 {
		eval.SafeStr(inst.Values[idx], buf)
	}
}

// fnModify updates instance components and counts how many changed.
// modify(<instance>, <components>, <values>[, <isep>])
func fnModify(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}

	globalStructs.mu.Lock()
	defer globalStructs.mu.Unlock()

	instName := strings.ToLower(args[0])
	instances := playerInstances(ctx.Player)
	inst, ok := instances[instName]
	if !ok {
		structFail(ctx, buf, "No such instance.")
		return
	}

	words := splitList(args[1], eval.SpaceDelim)
	vals := splitList(args[2], isep)
	modified := 0
	for i, word := range words {
		idx := inst.Def.compIndex(word)
		if inst.Def.needCheck() {
			if idx < 0 {
				notifyQuiet(ctx, ctx.Player, "No such component.")
				continue
			}
			if !typeOK(ctx, inst.Def.Types[idx], args[2]) {
				notifyQuiet(ctx, ctx.Player, "Value is of invalid type.")
				continue
			}
		} else if idx < 0 {
			notifyQuiet(ctx, ctx.Player, "No such data.")
			continue
		}
		if i < len(vals) {
			inst.Values[idx] = vals[i]
		} else {
			inst.Values[idx] = ""
		}
		modified++
	}

	if modified > 0 && ctx.GameState != nil {
		ctx.GameState.PersistStructInstance(ctx.Player, instName, toPersistedInst(inst))
	}
	writeInt(buf, modified)
}

// unloadStructure serializes an instance. A zero sep means "use the
// structure's own delimiter". Missing instances emit nothing.
func unloadStructure(ctx *eval.EvalContext, buf *strings.Builder, instName string, sep byte) {
	globalStructs.mu.RLock()
	defer globalStructs.mu.RUnlock()

	instances := globalStructs.Instances[ctx.Player]
	if instances == nil {
		return
	}
	inst, ok := instances[strings.ToLower(instName)]
	if !ok {
		return
	}
	if sep == 0 {
		sep = inst.Def.Delim
	}
	for i, v := range inst.Values {
		if i != 0 {
			eval.SafeChr(sep, buf)
		}
		eval.SafeStr(v, buf)
	}
}

// fnUnload serializes an instance: unload(<instance>[, <delim>])
func fnUnload(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	sep := byte(0)
	if len(args) > 1 {
		var isep eval.Delim
		if !ctx.DelimCheck(buf, args, 2, &isep, 0) {
			return
		}
		sep = isep.Str[0]
	}
	unloadStructure(ctx, buf, args[0], sep)
}

// fnWriteStruct stores a serialized instance into an attribute.
// write(<obj>/<attr>, <instance>)
func fnWriteStruct(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 || ctx.GameState == nil {
		return
	}
	parts := strings.SplitN(args[0], "/", 2)
	if len(parts) != 2 {
		eval.SafeStr("#-1 NO MATCH", buf)
		return
	}
	ref := resolveDBRef(ctx, parts[0])
	if ref == gamedb.Nothing {
		eval.SafeStr("#-1 NO MATCH", buf)
		return
	}

	var tbuf strings.Builder
	unloadStructure(ctx, &tbuf, args[1], genericStructDelim)
	if tbuf.Len() == 0 {
		return
	}
	if !ctx.GameState.Controls(ctx.Player, ref) {
		eval.SafeStr("#-1 PERMISSION DENIED", buf)
		return
	}
	ctx.GameState.SetAttrByName(ref, parts[1], tbuf.String())
}

// fnDestruct destroys an instance: destruct(<instance>)
func fnDestruct(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	globalStructs.mu.Lock()
	defer globalStructs.mu.Unlock()

	instName := strings.ToLower(args[0])
	instances := playerInstances(ctx.Player)
	inst, ok := instances[instName]
	if !ok {
		structFail(ctx, buf, "No such instance.")
		return
	}
	inst.Def.Instances--
	delete(instances, instName)
	if ctx.GameState != nil {
		ctx.GameState.PersistStructInstance(ctx.Player, instName, nil)
	}
	eval.SafeChr('1', buf)
}

// fnUnstructure deletes a structure definition. Definitions with live
// instances cannot be removed.
func fnUnstructure(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	globalStructs.mu.Lock()
	defer globalStructs.mu.Unlock()

	name := strings.ToLower(args[0])
	structs := playerStructs(ctx.Player)
	def, ok := structs[name]
	if !ok {
		structFail(ctx, buf, "No such structure.")
		return
	}
	if def.Instances > 0 {
		structFail(ctx, buf, "This structure is in use.")
		return
	}
	delete(structs, name)
	if ctx.GameState != nil {
		ctx.GameState.PersistStructDef(ctx.Player, name, nil)
	}
	eval.SafeChr('1', buf)
}

func fnLstructures(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	globalStructs.mu.RLock()
	defer globalStructs.mu.RUnlock()

	names := make([]string, 0, len(globalStructs.Structs[ctx.Player]))
	for name := range globalStructs.Structs[ctx.Player] {
		names = append(names, name)
	}
	sort.Strings(names)
	joinOut(buf, names, eval.SpaceDelim)
}

func fnLinstances(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	globalStructs.mu.RLock()
	defer globalStructs.mu.RUnlock()

	names := make([]string, 0, len(globalStructs.Instances[ctx.Player]))
	for name := range globalStructs.Instances[ctx.Player] {
		names = append(names, name)
	}
	sort.Strings(names)
	joinOut(buf, names, eval.SpaceDelim)
}
