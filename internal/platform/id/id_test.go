package id

import (
	"strings"
	"testing"
)

func decodeID(t *testing.T, value string) []byte {
	t.Helper()
	decoded, err := encoding.DecodeString(strings.ToUpper(value))
	if err != nil {
		t.Fatalf("decode %q: %v", value, err)
	}
	return decoded
}

func TestNewIDEncodesUUIDv4(t *testing.T) {
	value, err := NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	if len(value) != 26 {
		t.Fatalf("len(id) = %d, want 26", len(value))
	}
	if strings.Trim(value, "abcdefghijklmnopqrstuvwxyz234567") != "" {
		t.Fatalf("id %q has characters outside lowercase base32", value)
	}

	raw := decodeID(t, value)
	if len(raw) != 16 {
		t.Fatalf("decoded length = %d, want 16", len(raw))
	}
	if version := raw[6] >> 4; version != 4 {
		t.Fatalf("uuid version = %d, want 4", version)
	}
	if variant := raw[8] & 0xC0; variant != 0x80 {
		t.Fatalf("uuid variant = %#x, want 0x80", variant)
	}
}

func TestNewIDDoesNotRepeat(t *testing.T) {
	seen := make(map[string]struct{}, 200)
	for range 200 {
		value, err := NewID()
		if err != nil {
			t.Fatalf("NewID() error = %v", err)
		}
		if _, ok := seen[value]; ok {
			t.Fatalf("duplicate id %q", value)
		}
		seen[value] = struct{}{}
	}
}
