package eval

import (
	"fmt"
	"testing"

	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

func TestQIdx(t *testing.T) {
	tests := map[byte]int{
		'0': 0, '9': 9,
		'a': 10, 'z': 35,
		'A': 10, 'Z': 35,
		'!': -1, ' ': -1, '_': -1,
	}
	for ch, want := range tests {
		if got := QIdx(ch); got != want {
			t.Errorf("QIdx(%q) = %d, want %d", ch, got, want)
		}
	}
	for idx := 0; idx < MaxGlobalRegs; idx++ {
		if got := QIdx(QIdxChar(idx)); got != idx {
			t.Errorf("QIdx(QIdxChar(%d)) = %d", idx, got)
		}
	}
}

func TestSetRegisterQRegs(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	if got := ctx.SetRegister("0", "val"); got != 3 {
		t.Errorf("SetRegister returned %d, want 3", got)
	}
	if got := ctx.RData.Get("0"); got != "val" {
		t.Errorf("Get(0) = %q", got)
	}
	// Letter registers are case-insensitive.
	ctx.SetRegister("a", "low")
	if got := ctx.RData.Get("A"); got != "low" {
		t.Errorf("Get(A) = %q, want 'low'", got)
	}
	// Writing past %q9 grows the array to the full register space.
	ctx.SetRegister("z", "zed")
	if got := ctx.RData.Get("z"); got != "zed" {
		t.Errorf("Get(z) = %q", got)
	}
	if len(ctx.RData.QRegs) != MaxGlobalRegs {
		t.Errorf("QRegs grew to %d, want %d", len(ctx.RData.QRegs), MaxGlobalRegs)
	}
}

func TestSetRegisterNameErrors(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	for _, name := range []string{"", "!", "1bad", "has space", "q$"} {
		if got := ctx.SetRegister(name, "x"); got != -1 {
			t.Errorf("SetRegister(%q) = %d, want -1", name, got)
		}
	}
}

func TestSetRegisterDelete(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	ctx.SetRegister("0", "val")
	if got := ctx.SetRegister("0", ""); got != 0 {
		t.Errorf("delete returned %d, want 0", got)
	}
	if got := ctx.RData.Get("0"); got != "" {
		t.Errorf("Get after delete = %q", got)
	}
	// Deleting a register that was never set is a no-op.
	if got := ctx.SetRegister("5", ""); got != 0 {
		t.Errorf("delete of unset = %d, want 0", got)
	}
	ctx.SetRegister("myreg", "val")
	ctx.SetRegister("myreg", "")
	if got := ctx.RData.Get("myreg"); got != "" {
		t.Errorf("named register survived deletion: %q", got)
	}
}

func TestSetRegisterNamedLimit(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	ctx.RegisterLimit = 10
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("reg%d", i)
		if got := ctx.SetRegister(name, "v"); got != 1 {
			t.Fatalf("SetRegister(%s) = %d, want 1", name, got)
		}
	}
	if got := ctx.SetRegister("overflow", "v"); got != -2 {
		t.Errorf("over limit = %d, want -2", got)
	}
	// Overwriting an existing name still works at the limit.
	if got := ctx.SetRegister("reg0", "new"); got != 3 {
		t.Errorf("overwrite at limit = %d, want 3", got)
	}
	// So does reusing the cell freed by a deletion.
	ctx.SetRegister("reg1", "")
	if got := ctx.SetRegister("fresh", "v"); got != 1 {
		t.Errorf("reuse freed cell = %d, want 1", got)
	}
}

func TestRegisterDirtyCount(t *testing.T) {
	ctx := NewEvalContext(gamedb.NewDatabase())
	ctx.SetRegister("0", "a")
	ctx.SetRegister("name", "b")
	ctx.SetRegister("0", "")
	if ctx.RData.Dirty != 3 {
		t.Errorf("Dirty = %d, want 3", ctx.RData.Dirty)
	}
	// Reads don't count.
	ctx.RData.Get("name")
	if ctx.RData.Dirty != 3 {
		t.Errorf("Dirty after read = %d, want 3", ctx.RData.Dirty)
	}
}

func TestRegisterDataClone(t *testing.T) {
	var nilData *RegisterData
	if nilData.Clone() != nil {
		t.Error("nil Clone should be nil")
	}
	if nilData.Get("0") != "" {
		t.Error("nil Get should be empty")
	}

	ctx := NewEvalContext(gamedb.NewDatabase())
	ctx.SetRegister("0", "orig")
	ctx.SetRegister("name", "orig")
	clone := ctx.RData.Clone()

	ctx.SetRegister("0", "changed")
	ctx.SetRegister("name", "changed")
	if got := clone.Get("0"); got != "orig" {
		t.Errorf("clone q-reg = %q, want 'orig'", got)
	}
	if got := clone.Get("name"); got != "orig" {
		t.Errorf("clone named reg = %q, want 'orig'", got)
	}
}
