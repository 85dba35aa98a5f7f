package functions

import (
	"strings"

	mushcrypt "github.com/crystal-mush/mushcode/pkg/crypt"
	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// aPass is the well-known attribute number holding a player's password
// hash, stored as crypt(password, "XX") or plaintext in old databases.
const aPass = 5

// fnCrypt performs traditional Unix DES crypt(3): crypt(<text>, <salt>).
func fnCrypt(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 || args[0] == "" {
		return
	}
	salt := args[1]
	if len(salt) < 2 {
		salt = "XX"
	}
	buf.WriteString(mushcrypt.Crypt(args[0], salt[:2]))
}

// fnCheckpass verifies a password against a player's stored hash:
// checkpass(<player>, <password>). Wizard-only.
func fnCheckpass(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		buf.WriteString("0")
		return
	}
	self, ok := ctx.DB.Objects[ctx.Player]
	if !ok || !self.HasFlag(gamedb.FlagWizard) {
		buf.WriteString("#-1 PERMISSION DENIED")
		return
	}
	ref := resolveDBRef(ctx, args[0])
	obj, ok := ctx.DB.Objects[ref]
	if !ok || obj.ObjType() != gamedb.TypePlayer {
		buf.WriteString("#-1 NOT FOUND")
		return
	}
	for _, attr := range obj.Attrs {
		if attr.Number == aPass {
			stored := eval.StripAttrPrefix(attr.Value)
			if stored == "" {
				break
			}
			if stored == args[1] || mushcrypt.CheckPassword(args[1], stored) {
				buf.WriteString("1")
				return
			}
			break
		}
	}
	buf.WriteString("0")
}
