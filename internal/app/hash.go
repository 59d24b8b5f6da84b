package app

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/tacogips/headsync/internal/repo/model"
)

// ManifestDigest fingerprints a manifest so two runs can be compared with a
// single value. Entries are hashed in manifest order with NUL separators
// between path and hash, and between entries.
func ManifestDigest(m *model.Manifest) string {
	if m == nil || len(m.Entries) == 0 {
		return ""
	}

	h := sha256.New()
	h.Write([]byte(m.Algorithm))
	h.Write([]byte("\x00"))
	for _, e := range m.Entries {
		h.Write([]byte(e.Path))
		h.Write([]byte("\x00"))
		h.Write([]byte(e.Hash))
		h.Write([]byte("\x00"))
	}

	return hex.EncodeToString(h.Sum(nil))
}
