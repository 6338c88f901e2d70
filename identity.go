package webtrack

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

const visitorIDLength = 16

// DeriveVisitorID fingerprints a client from its user agent and IP address.
// The same inputs always hash to the same id, so a returning visitor keeps
// its identity without anything being stored server-side. The digest is
// truncated, so distinct fingerprints can collide at birthday-bound odds.
func DeriveVisitorID(userAgent, ipAddress string) string {
	sum := sha256.Sum256([]byte(userAgent + ":" + ipAddress))
	return hex.EncodeToString(sum[:])[:visitorIDLength]
}

// NewSessionID returns a fresh random session token.
func NewSessionID() string {
	return uuid.NewString()
}
