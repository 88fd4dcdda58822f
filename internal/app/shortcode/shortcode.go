// Package shortcode generates and checks the short codes that identify links.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Alphabet is the set of characters a code may contain.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// GeneratedLength is the length of codes produced by Generate.
	GeneratedLength = 6

	MinLength = 6
	MaxLength = 8
)

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a random code of GeneratedLength characters.
// Uniqueness is not guaranteed; the store's constraint decides.
func Generate() (string, error) {
	b := make([]byte, GeneratedLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("shortcode: read random: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b), nil
}

// IsValid reports whether code has 6 to 8 characters, all from Alphabet.
func IsValid(code string) bool {
	if len(code) < MinLength || len(code) > MaxLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !isAlphanumeric(code[i]) {
			return false
		}
	}
	return true
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
