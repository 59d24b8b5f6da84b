package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/tacogips/headsync/internal/repo/model"
)

// Hasher returns the hex-encoded hash of content.
type Hasher func(content []byte) string

// HasherFor returns the Hasher for alg.
func HasherFor(alg model.HashAlgorithm) (Hasher, error) {
	switch alg {
	case model.HashSHA256, "":
		return hashSHA256, nil
	case model.HashXXH3:
		return hashXXH3, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

func hashSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func hashXXH3(content []byte) string {
	sum := xxh3.Hash128(content).Bytes()
	return hex.EncodeToString(sum[:])
}
