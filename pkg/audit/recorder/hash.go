package recorder

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashLine returns the hex-encoded SHA-256 digest of a line. Audit records
// keep this digest instead of the line text.
func HashLine(line string) string {
	sum := sha256.Sum256([]byte(line))
	return hex.EncodeToString(sum[:])
}
