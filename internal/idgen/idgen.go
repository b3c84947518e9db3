// Package idgen provides time-ordered unique comment identifiers backed by ULID.
package idgen

import (
	crand "crypto/rand"
	"fmt"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/oklog/ulid/v2"
)

// Length is the encoded length of a comment ID.
const Length = ulid.EncodedSize

// requestIDAlphabet is the character set used for request correlation IDs.
const requestIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(crand.Reader, 0)
)

// New returns a new comment ID. IDs sort lexicographically in generation
// order, including IDs minted within the same millisecond by one process.
func New() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id.String(), nil
}

// Normalize parses id case-insensitively and returns the canonical uppercase
// form. Every externally supplied ID must pass through Normalize before it is
// used as a storage key.
func Normalize(id string) (string, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return "", fmt.Errorf("idgen: parse %q: %w", id, err)
	}
	return parsed.String(), nil
}

// Time extracts the generation time embedded in id.
func Time(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("idgen: parse %q: %w", id, err)
	}
	return ulid.Time(parsed.Time()).UTC(), nil
}

// NewRequestID returns a short random ID for request correlation. Request IDs
// are not time-ordered and are never used as storage keys.
func NewRequestID() (string, error) {
	id, err := nanoid.Generate(requestIDAlphabet, 12)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return "req-" + id, nil
}
