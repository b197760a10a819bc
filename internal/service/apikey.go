package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// Raw keys look like "plc_<48 hex chars>". Only the sha256 hash is stored;
// the first keyPrefixLen characters are kept alongside it as a non-secret
// lookup index.
const keyPrefixLen = 16

func GenerateAPIKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "plc_" + hex.EncodeToString(b), nil
}

func HashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// KeyPrefix returns the non-secret lookup prefix of a raw key.
func KeyPrefix(key string) string {
	if len(key) < keyPrefixLen {
		return key
	}
	return key[:keyPrefixLen]
}
