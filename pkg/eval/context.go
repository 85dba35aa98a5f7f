package eval

import (
	"strings"

	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// EvalFlags control expression evaluation behavior
const (
	EvEval        = 0x0001 // Evaluate functions
	EvFCheck      = 0x0002 // Check for function invocations
	EvFMand       = 0x0004 // Function evaluation is mandatory (inside [])
	EvStrip       = 0x0008 // Strip {} and leading/trailing spaces
	EvNoCompress  = 0x0010 // Don't compress spaces
	EvStripLS     = 0x0020 // Strip leading spaces
	EvStripTS     = 0x0040 // Strip trailing spaces
	EvStripESC    = 0x0080 // Strip backslash escapes
	EvStripAround = 0x0100 // Strip surrounding {}
	EvNoFCheck    = 0x0200 // Don't check for functions
	EvNoTrace     = 0x0400 // Don't trace
	EvNoLocation  = 0x0800 // Don't resolve %l
)

const MaxGlobalRegs = 36
const MaxNFArgs = 30

// Side-effect limit flags for nofx()/sandbox(). A set bit forbids that
// class of side effect for the duration of the sandboxed evaluation.
// The same bits mark side-effecting functions in Function.Flags, so the
// dispatcher can compare the two masks directly.
const (
	FnDbfx    = 0x0100 // database changes
	FnQfx     = 0x0200 // queue changes
	FnOutfx   = 0x0400 // output to players
	FnVarfx   = 0x0800 // register/variable changes
	FnStackfx = 0x1000 // stack changes
)

// LoopState tracks iter()/parse()/switch() nesting
type LoopState struct {
	InLoop      int
	InSwitch    int
	LoopTokens  []string // ## values per nesting level
	LoopTokens2 []string // #+ values (iter2)
	LoopNumbers []int    // #@ values
	SwitchToken string   // #$ value
	BreakLevel  int      // > 0 means break out of this many loop levels
}

// GameState provides world services to eval functions without tying
// the evaluator to a particular store or transport.
type GameState interface {
	// LookupPlayer finds a player by name (partial match).
	LookupPlayer(name string) gamedb.DBRef
	// Controls returns true if player controls target.
	Controls(player, target gamedb.DBRef) bool
	// SetAttrByName sets an attribute value on an object by attribute name.
	SetAttrByName(obj gamedb.DBRef, attrName string, value string)
	// GetAttrTextGS returns the text of an attribute on an object (with parent walk).
	GetAttrTextGS(obj gamedb.DBRef, attrNum int) string
	// CanReadAttrGS checks if player can read a specific attribute on obj.
	// rawValue is the raw attribute value string (with \x01owner:flags:text prefix).
	CanReadAttrGS(player, obj gamedb.DBRef, attrNum int, rawValue string) bool
	// ExecuteSQL executes a SQL query, returning delimited results or an error string.
	ExecuteSQL(player gamedb.DBRef, query, rowDelim, fieldDelim string) string
	// EscapeSQL escapes a string for safe SQL interpolation (doubles single quotes).
	EscapeSQL(input string) string
	// PersistStructDef saves or deletes a structure definition.
	// Pass nil def to delete.
	PersistStructDef(player gamedb.DBRef, name string, def *gamedb.StructDef)
	// PersistStructInstance saves or deletes a structure instance.
	// Pass nil inst to delete.
	PersistStructInstance(player gamedb.DBRef, name string, inst *gamedb.StructInstance)
}

// EvalContext is the execution context for MUSH expression evaluation.
type EvalContext struct {
	// Database reference
	DB *gamedb.Database

	// Game state for world services
	GameState GameState

	// Object context
	Player gamedb.DBRef // Executor (the object running code, %!)
	Caller gamedb.DBRef // Caller (@)
	Cause  gamedb.DBRef // Enactor/trigger cause (%#)

	// Register state
	RData *RegisterData

	// Object variables (x()/setx()/let()), keyed "<dbref>.<name>"
	Vars      map[string]string
	VarsCount map[gamedb.DBRef]int

	// Loop/switch state
	Loop LoopState

	// Function call tracking
	FuncNestLev int
	FuncInvkCtr int
	FuncNestLim int // default 50
	FuncInvkLim int // default 2500

	// Forbidden side-effect classes (FnDbfx etc.), set by nofx()/sandbox()
	FnLimitMask int

	// Configurable limits
	RegisterLimit int // named global registers, default 50
	NumVarsLim    int // object variables per object, default 50
	StackLim      int // stack depth per object, default 50
	StructLim     int // structure definitions per player, default 100
	InstanceLim   int // structure instances per player, default 100
	MaxGridSize   int // rows*cols cap per grid, default 1000

	// Dbrefs #0 and #-1 are boolean false, all other dbrefs true
	BoolsOldstyle bool

	// Current command text
	CurrCmd string

	// Piped output
	PipeOut string

	// Output buffer for side-effect notifications
	Notifications []Notification

	// Space compression (default true in most configs)
	SpaceCompress bool

	// ANSI colors enabled
	AnsiColors bool

	// User-defined functions (name -> UFun)
	UFunctions map[string]*UFunction

	// Built-in function registry
	Functions map[string]*Function

	// Game identity (set from game config)
	MudName    string
	VersionStr string

	// CArgs holds the current command arguments (%0-%9) from the calling context.
	// This allows FnNoEval function handlers (iter, switch, etc.) to propagate
	// parent cargs when they call Exec() internally.
	CArgs []string
}

// NotifyType distinguishes different notification semantics.
type NotifyType int

const (
	NotifyPemit NotifyType = iota // Default: send to target
	NotifyRemit                   // Send to all in room
	NotifyOEmit                   // Send to all in target's room except target
)

// Notification represents a pending pemit/remit/etc
type Notification struct {
	Target  gamedb.DBRef
	Message string
	Type    NotifyType
}

// UFunction is a user-defined (@function) function
type UFunction struct {
	Name  string
	Obj   gamedb.DBRef
	Attr  int
	Flags int
	Perms int
}

// UFunction flags
const (
	UfPriv   = 0x0001 // /privileged — runs as object owner
	UfPres   = 0x0002 // /preserve — preserves caller registers
	UfNoregs = 0x0004 // /private — called with a clean register file
	UfNoEval = 0x0008 // /noeval — arguments passed unevaluated
)

// FnHandler is the signature for built-in function handlers.
type FnHandler func(ctx *EvalContext, args []string, buff *strings.Builder, caller, cause gamedb.DBRef)

// Function is a registered built-in function.
type Function struct {
	Name    string
	Handler FnHandler
	NArgs   int // Expected args (-N means join rest, 0 with VarArgs means any)
	Flags   int
}

// Function flags
const (
	FnVarArgs = 0x0001 // Variable number of args
	FnNoEval  = 0x0002 // Don't evaluate args before calling
	FnPriv    = 0x0004 // Privileged function
	FnNoregs  = 0x0008 // Don't pass registers
	FnPres    = 0x0010 // Preserve registers across call
)

// NewEvalContext creates an EvalContext with reasonable defaults.
func NewEvalContext(db *gamedb.Database) *EvalContext {
	ctx := &EvalContext{
		DB:            db,
		Player:        gamedb.Nothing,
		Caller:        gamedb.Nothing,
		Cause:         gamedb.Nothing,
		FuncNestLim:   50,
		FuncInvkLim:   2500,
		RegisterLimit: 50,
		NumVarsLim:    50,
		StackLim:      50,
		StructLim:     100,
		InstanceLim:   100,
		MaxGridSize:   1000,
		SpaceCompress: true,
		AnsiColors:    true,
		UFunctions:    make(map[string]*UFunction),
		Functions:     make(map[string]*Function),
	}
	return ctx
}

// GetAttrValue fetches an attribute value for an object from the DB.
// Returns the raw value string including owner:flags:data prefix.
func (ctx *EvalContext) GetAttrValue(obj gamedb.DBRef, attrNum int) string {
	dbObj, ok := ctx.DB.Objects[obj]
	if !ok {
		return ""
	}
	for _, attr := range dbObj.Attrs {
		if attr.Number == attrNum {
			return attr.Value
		}
	}
	return ""
}

// GetAttrText fetches the text portion of an attribute (after owner:flags: prefix).
func (ctx *EvalContext) GetAttrText(obj gamedb.DBRef, attrNum int) string {
	raw := ctx.GetAttrValue(obj, attrNum)
	if raw == "" {
		return ""
	}
	return StripAttrPrefix(raw)
}

// StripAttrPrefix removes the "\x01owner:flags:" prefix from a raw attribute value.
// TinyMUSH stores attributes either as raw text (no prefix) or with a \x01 marker
// followed by "owner:flags:text". If no \x01 marker is present, returns the raw value.
func StripAttrPrefix(raw string) string {
	if len(raw) == 0 {
		return raw
	}
	// Check for ATR_INFO_CHAR (\x01) marker
	if raw[0] != '\x01' {
		return raw
	}
	// Format is "\x01owner:flags:text" — find second colon after the marker
	colonCount := 0
	for i := 1; i < len(raw); i++ {
		if raw[i] == ':' {
			colonCount++
			if colonCount == 2 {
				return raw[i+1:]
			}
		}
	}
	// Malformed prefix — return everything after the marker
	return raw[1:]
}

// RegisterFunction adds a built-in function to the registry.
func (ctx *EvalContext) RegisterFunction(name string, handler FnHandler, nargs int, flags int) {
	ctx.Functions[name] = &Function{
		Name:    name,
		Handler: handler,
		NArgs:   nargs,
		Flags:   flags,
	}
}

// AliasFunction creates an alias for an existing function.
// Both alias and target should be uppercase.
func (ctx *EvalContext) AliasFunction(alias, target string) {
	if fn, ok := ctx.Functions[target]; ok {
		ctx.Functions[alias] = fn
	}
}
