package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// authTokenSize is the entropy of a generated auth token (256 bits).
const authTokenSize = 32

// GenerateToken creates a cryptographically random opaque auth token.
// NOTE: this carries no claims, it's just random bytes stored on the account
// record that we can compare bearer credentials against.
// Returns the token string in a base64-urlencoded format.
func GenerateToken() (string, error) {
	b := make([]byte, authTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate auth token: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// TokensEqual compares a presented bearer token against the stored token in
// constant time to prevent timing side channels. Empty tokens never match.
func TokensEqual(presented, stored string) bool {
	if presented == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}
