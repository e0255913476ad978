// Package gameid generates sortable match identifiers.
package gameid

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"time"
)

// Crockford's base32 alphabet in lower case. It is in ascending byte order,
// so encoded IDs sort the same way as the raw bytes.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an ID.
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator builds UUIDv7-style IDs: 48 bits of milliseconds followed by
// random bits, encoded as 26 base32 characters.
type Generator struct {
	entropy io.Reader
	now     func() time.Time
}

// NewGenerator returns a generator reading randomness from entropy and time
// from now. Nil arguments fall back to crypto/rand and time.Now.
func NewGenerator(entropy io.Reader, now func() time.Time) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{entropy: entropy, now: now}
}

// Generate returns an ID using crypto/rand and the wall clock.
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate returns a new ID.
func (g *Generator) Generate() string {
	var id [16]byte

	ms := g.now().UnixMilli()
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	if _, err := io.ReadFull(g.entropy, id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	// version 7, variant 10
	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80

	return encoding.EncodeToString(id[:])
}

// Validate checks that id has the right length and alphabet.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("match ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
