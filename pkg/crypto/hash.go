package crypto

import (
	"encoding/base64"
	"hash"
)

// HashString writes s into hash and returns the sum encoded as
// unpadded base64url. A nil hash returns s unchanged.
func HashString(hash hash.Hash, s string) string {
	if hash == nil {
		return s
	}
	//nolint:errcheck
	hash.Write([]byte(s))
	return base64.RawURLEncoding.EncodeToString(hash.Sum(nil))
}
