package slip

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short digest of a payload that is printed next to
// the QR code, so a scanned code can be matched against the paper slip.
func Fingerprint(payload string) string {
	sum := blake2b.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}
