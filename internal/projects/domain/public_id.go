package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// publicIDAlphabet leaves out 0/O and 1/I/L so ids can be read over the phone.
const publicIDAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// NewPublicID returns an id such as "abplan-7KQ2-M9XD".
func NewPublicID(prefix string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate public id: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for i, b := range buf {
		if i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(publicIDAlphabet[int(b)%len(publicIDAlphabet)])
	}
	return sb.String(), nil
}
