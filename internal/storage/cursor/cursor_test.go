package cursor

import "testing"

func TestEncodeDecodeKeepsPosition(t *testing.T) {
	token, err := Encode(New(42, "session-1"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Seq != 42 {
		t.Fatalf("seq = %d, want 42", got.Seq)
	}
	if err := ValidateFilterHash(got, "session-1"); err != nil {
		t.Fatalf("validate same filter: %v", err)
	}
	if err := ValidateFilterHash(got, "session-2"); err == nil {
		t.Fatal("expected changed filter to be rejected")
	}
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"not base64":  "%%%",
		"not json":    "bm90LWpzb24=",
		"missing seq": "e30=",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(token); err == nil {
				t.Fatalf("Decode(%q) succeeded, want error", token)
			}
		})
	}
}

func TestHashFilter(t *testing.T) {
	if got := HashFilter(""); got != "" {
		t.Fatalf("HashFilter(\"\") = %q, want empty", got)
	}
	if got := HashFilter("abc"); len(got) != 16 {
		t.Fatalf("HashFilter(abc) length = %d, want 16", len(got))
	}
	if HashFilter("abc") == HashFilter("abd") {
		t.Fatal("expected distinct filters to hash differently")
	}
}
