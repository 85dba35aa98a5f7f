package eval

import "strings"

// Global evaluation registers. Single-character names are the classic
// q-registers (%q0-%q9, %qa-%qz); longer names are arbitrary named
// registers held in parallel ordered slices so listing order is stable.
// Setting a register to the empty string deletes it.

// NumEnvVars is the %0-%9 stack argument count, also the growth step
// for the named register array.
const NumEnvVars = 10

const qidxStr = "0123456789abcdefghijklmnopqrstuvwxyz"

// QIdx maps a register-name character to its q-register index: digits
// are 0-9, letters of either case are 10-35, anything else is -1.
func QIdx(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 10
	}
	return -1
}

// QIdxChar is the inverse of QIdx.
func QIdxChar(idx int) byte {
	return qidxStr[idx]
}

// RegisterData holds one evaluation thread's registers. QRegs is sized
// lazily: a block of 10 covers %q0-%q9, the first write past that grows
// it to MaxGlobalRegs. (Most code won't go beyond %q0-%q9, especially
// legacy code which predates the larger register space.) In XNames an
// empty string marks a free cell left by a deletion; inserts reuse the
// first free cell. Dirty counts mutations so callers can tell whether
// a sandboxed evaluation touched anything.
type RegisterData struct {
	QRegs  []string
	XNames []string
	XRegs  []string
	Dirty  int
}

// touch records a mutation for sandbox dirty-tracking and the
// register-write counter.
func (g *RegisterData) touch() {
	g.Dirty++
	metricRegisterWrites.Inc()
}

// Clone deep-copies g. A nil receiver clones to nil.
func (g *RegisterData) Clone() *RegisterData {
	if g == nil {
		return nil
	}
	return &RegisterData{
		QRegs:  append([]string(nil), g.QRegs...),
		XNames: append([]string(nil), g.XNames...),
		XRegs:  append([]string(nil), g.XRegs...),
		Dirty:  g.Dirty,
	}
}

// Get returns the value of the register named r, or "" when the
// register is unset or the name is invalid.
func (g *RegisterData) Get(r string) string {
	if g == nil || r == "" {
		return ""
	}
	if len(r) == 1 {
		regnum := QIdx(r[0])
		if regnum < 0 || regnum >= MaxGlobalRegs {
			return ""
		}
		if regnum < len(g.QRegs) {
			return g.QRegs[regnum]
		}
		return ""
	}
	lower := strings.ToLower(r)
	for i, n := range g.XNames {
		if n != "" && n == lower {
			return g.XRegs[i]
		}
	}
	return ""
}

func isAsciiAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAsciiAlnum(ch byte) bool {
	return isAsciiAlpha(ch) || (ch >= '0' && ch <= '9')
}

// foldXName validates and case-folds a named-register name: it must be
// shorter than SbufSize, begin with a letter, and contain only
// alphanumerics, '_', '-', '.' and '#'.
func foldXName(name string) (string, bool) {
	if len(name) >= SbufSize || !isAsciiAlpha(name[0]) {
		return "", false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if !isAsciiAlnum(ch) && ch != '_' && ch != '-' && ch != '.' && ch != '#' {
			return "", false
		}
	}
	return strings.ToLower(name), true
}

func (ctx *EvalContext) rdata() *RegisterData {
	if ctx.RData == nil {
		ctx.RData = &RegisterData{}
	}
	return ctx.RData
}

// SetRegister stores value in the register called name and returns the
// number of characters set. -1 indicates a name error, -2 that the
// named-register limit was exceeded. An empty value deletes the
// register; deleting a register that was never set does nothing.
func (ctx *EvalContext) SetRegister(name, value string) int {
	if name == "" {
		return -1
	}

	if len(name) == 1 {
		regnum := QIdx(name[0])
		if regnum < 0 || regnum >= MaxGlobalRegs {
			return -1
		}

		if value == "" {
			g := ctx.RData
			if g == nil || regnum >= len(g.QRegs) {
				return 0
			}
			if g.QRegs[regnum] != "" {
				g.QRegs[regnum] = ""
				g.touch()
			}
			return 0
		}

		g := ctx.rdata()
		if len(g.QRegs) == 0 {
			aSize := NumEnvVars
			if regnum >= NumEnvVars {
				aSize = MaxGlobalRegs
			}
			g.QRegs = make([]string, aSize)
		} else if regnum >= len(g.QRegs) {
			grown := make([]string, MaxGlobalRegs)
			copy(grown, g.QRegs)
			g.QRegs = grown
		}
		g.QRegs[regnum] = value
		g.touch()
		return len(value)
	}

	// Arbitrarily-named register. Clearing doesn't validate the name,
	// it just can't match anything invalid.
	if value == "" {
		g := ctx.RData
		if g == nil || len(g.XNames) == 0 {
			return 0
		}
		lower := strings.ToLower(name)
		for i, n := range g.XNames {
			if n != "" && n == lower {
				g.XNames[i] = ""
				g.XRegs[i] = ""
				g.touch()
				return 0
			}
		}
		return 0
	}

	lower, ok := foldXName(name)
	if !ok {
		return -1
	}

	g := ctx.rdata()
	if len(g.XNames) == 0 {
		g.XNames = make([]string, NumEnvVars)
		g.XRegs = make([]string, NumEnvVars)
		g.XNames[0] = lower
		g.XRegs[0] = value
		g.touch()
		return len(value)
	}

	// Replace an existing entry.
	for i, n := range g.XNames {
		if n != "" && n == lower {
			g.XRegs[i] = value
			g.touch()
			return len(value)
		}
	}

	// Reuse a free cell.
	for i, n := range g.XNames {
		if n == "" {
			g.XNames[i] = lower
			g.XRegs[i] = value
			g.touch()
			return len(value)
		}
	}

	// Out of room, grow by a block unless we're at the limit.
	regnum := len(g.XNames)
	aSize := regnum + NumEnvVars
	if aSize > ctx.RegisterLimit {
		aSize = ctx.RegisterLimit
		if aSize <= regnum {
			return -2
		}
	}
	grownNames := make([]string, aSize)
	grownRegs := make([]string, aSize)
	copy(grownNames, g.XNames)
	copy(grownRegs, g.XRegs)
	grownNames[regnum] = lower
	grownRegs[regnum] = value
	g.XNames = grownNames
	g.XRegs = grownRegs
	g.touch()
	return len(value)
}
