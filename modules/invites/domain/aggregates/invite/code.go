package invite

import (
	"crypto/rand"
	"encoding/hex"
)

const codeBytes = 5

// GenerateCode returns a 10 character lowercase hex passcode.
func GenerateCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
