// internal/visitor/fingerprint.go
package visitor

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives a stable de-duplication key from the raw IP address
// and user-agent strings. It is one-way and is never reversed; shared IPs,
// NAT and UA spoofing make it a heuristic for unique-visitor counting, not
// a durable identity.
func Fingerprint(ipAddress, userAgent string) string {
	sum := sha256.Sum256([]byte(ipAddress + ":" + userAgent))
	return hex.EncodeToString(sum[:])
}
