// Package random provides cryptographic seed generation helpers.
//
// Ladder generation is deterministic for a given seed; NewSeed supplies the
// high-entropy seed each live session starts from.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// SeedFunc produces seeds for deterministic generators.
type SeedFunc func() (int64, error)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Sequence returns a SeedFunc that yields seeds in order and then repeats the
// last one. It exists for replaying recorded sessions and for tests, and is
// not safe for concurrent use.
func Sequence(seeds ...int64) SeedFunc {
	next := 0
	return func() (int64, error) {
		if len(seeds) == 0 {
			return 0, fmt.Errorf("seed sequence is empty")
		}
		seed := seeds[min(next, len(seeds)-1)]
		next++
		return seed, nil
	}
}
