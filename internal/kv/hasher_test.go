package kv

import "testing"

func TestHashContent_Known(t *testing.T) {
	// Known SHA256 hash of "hello"
	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	result := HashContent([]byte("hello"))

	if result != expected {
		t.Errorf("HashContent(\"hello\") = %q, want %q", result, expected)
	}
}

func TestHashContent(t *testing.T) {
	payload := []byte(`[{"id":"entry_1"}]`)
	hash1 := HashContent(payload)
	hash2 := HashContent(payload)

	if hash1 != hash2 {
		t.Errorf("same payload produced different hashes: %q != %q", hash1, hash2)
	}

	if different := HashContent([]byte(`[]`)); hash1 == different {
		t.Error("different payload should produce different hash")
	}

	if len(hash1) != 64 {
		t.Errorf("hash length should be 64, got %d", len(hash1))
	}
}
