// Package cursor encodes opaque page tokens for newest-first listings.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor is the decoded state of a page token.
type Cursor struct {
	// Seq is the last sequence number already returned; the next page starts
	// strictly below it.
	Seq uint64 `json:"seq"`
	// FilterHash invalidates the token when the listing filter changes.
	FilterHash string `json:"filter_hash,omitempty"`
}

// New creates the cursor that follows lastSeq under filter.
func New(lastSeq uint64, filter string) Cursor {
	return Cursor{Seq: lastSeq, FilterHash: HashFilter(filter)}
}

// Encode encodes a cursor to an opaque base64 string.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode decodes an opaque base64 string to a cursor.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("empty token")
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}
	if c.Seq == 0 {
		return Cursor{}, fmt.Errorf("cursor sequence is required")
	}
	return c, nil
}

// HashFilter returns a short hash of filter, or "" for an empty filter.
func HashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	h := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(h[:8])
}

// ValidateFilterHash fails when filter differs from the one the cursor was
// created under.
func ValidateFilterHash(c Cursor, filter string) error {
	if c.FilterHash != HashFilter(filter) {
		return fmt.Errorf("filter changed since cursor was created")
	}
	return nil
}
