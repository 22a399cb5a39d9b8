// Package backupcode generates and normalises single-use recovery codes.
//
// A code is 8 uppercase hex characters taken from 4 random bytes. Codes
// within a set are not checked for uniqueness; at 32 bits a collision in a
// set of 10 is negligible.
package backupcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// SetSize is the number of codes issued per enable or regenerate.
	SetSize = 10

	// Length is the number of characters in a code.
	Length = 8

	codeBytes = Length / 2
)

// Generate returns a fresh set of SetSize codes.
func Generate() ([]string, error) {
	codes := make([]string, SetSize)
	for i := range codes {
		code, err := newCode()
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

func newCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("backupcode: read random: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// Normalize trims surrounding space and upper-cases a submitted code so
// comparisons are case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsFormat reports whether code (already normalised) is 8 uppercase hex
// characters.
func IsFormat(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := range len(code) {
		c := code[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
