package feature

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

var namespace = uuid.NewMD5(uuid.NameSpaceURL, []byte("https://github.com/bodgit/ifedit/feature"))

// Identity returns a stable 20 hex digit fingerprint of a binding slot. The
// same inputs always produce the same identity, on any platform, so it can
// be used to match bindings between two snapshots of a dictionary.
func Identity(k *Key, kind Kind, mode Mode, res Resolution) string {
	name := fmt.Sprintf("%s\x00%s\x00%s\x00%d\x00%d", k.Name(), kind, mode, res.Width, res.Height)
	id := uuid.NewMD5(namespace, []byte(name))
	s := hex.EncodeToString(id[:])
	return s[:8] + s[20:]
}
