// Package ident generates lexically sortable, time-ordered identifiers used
// as note filenames.
package ident

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator produces time-ordered identifiers.
type Generator interface {
	// New returns a fresh identifier for the current instant.
	New() (string, error)
	// FromTime returns an identifier derived only from t, so the same
	// timestamp always yields the same identifier.
	FromTime(t time.Time) (string, error)
}

// Style selects an identifier family.
type Style int

const (
	StyleULID Style = iota
	StyleUUID
)

func (s Style) String() string {
	switch s {
	case StyleUUID:
		return "uuid"
	default:
		return "ulid"
	}
}

// ParseStyle maps "ulid" or "uuid" to a Style. Empty means ULID.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ulid":
		return StyleULID, nil
	case "uuid":
		return StyleUUID, nil
	default:
		return 0, fmt.Errorf("ident: unknown style %q", s)
	}
}

// For returns a new generator for style.
func For(style Style) Generator {
	if style == StyleUUID {
		return UUIDv7{}
	}
	return NewULID()
}

// Recognize reports whether s parses as a ULID or a UUID.
func Recognize(s string) bool {
	if _, err := ulid.ParseStrict(s); err == nil {
		return true
	}
	if _, err := uuid.Parse(s); err == nil && len(s) == 36 {
		return true
	}
	return false
}

// seeded returns a deterministic entropy source for t.
func seeded(t time.Time) *mrand.Rand {
	return mrand.New(mrand.NewSource(t.UnixNano()))
}

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// ULID generates Crockford base32 ULIDs. Fresh identifiers are monotonic
// within the same millisecond.
type ULID struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewULID returns a ULID generator backed by crypto/rand.
func NewULID() *ULID {
	return &ULID{
		entropy: ulid.Monotonic(randReader{}, 0),
		now:     time.Now,
	}
}

// New implements Generator.
func (g *ULID) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("ident: ulid: %w", err)
	}
	return id.String(), nil
}

// FromTime implements Generator.
func (g *ULID) FromTime(t time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(t), seeded(t))
	if err != nil {
		return "", fmt.Errorf("ident: ulid: %w", err)
	}
	return id.String(), nil
}

// UUIDv7 generates RFC 9562 version 7 UUIDs.
type UUIDv7 struct{}

// New implements Generator.
func (UUIDv7) New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("ident: uuid: %w", err)
	}
	return id.String(), nil
}

// FromTime implements Generator. The first 48 bits hold the Unix
// millisecond timestamp; the rest are drawn from a PRNG seeded with t.
func (UUIDv7) FromTime(t time.Time) (string, error) {
	ms := t.UnixMilli()
	if ms < 0 || ms >= 1<<48 {
		return "", fmt.Errorf("ident: uuid: timestamp out of range: %s", t)
	}
	var id uuid.UUID
	for i := range 6 {
		id[i] = byte(ms >> (8 * (5 - i)))
	}
	if _, err := seeded(t).Read(id[6:]); err != nil {
		return "", fmt.Errorf("ident: uuid: %w", err)
	}
	id[6] = id[6]&0x0f | 0x70
	id[8] = id[8]&0x3f | 0x80
	return id.String(), nil
}
