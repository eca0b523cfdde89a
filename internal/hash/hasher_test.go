package hash

import (
	"encoding/hex"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestContentKey(t *testing.T) {
	cases := map[string]string{
		"ABCDEF":        "abcdef",
		"  d41d8cd9 \t": "d41d8cd9",
		"":              "",
		"   ":           "",
	}
	for in, expected := range cases {
		if got := ContentKey(in); got != expected {
			t.Errorf("ContentKey(%q): expected %q, got %q", in, expected, got)
		}
	}
}

func TestSum(t *testing.T) {
	data := []byte("Hello, World!")

	h := xxhash.New()
	h.Write(data)
	expected := hex.EncodeToString(h.Sum(nil))

	if got := Sum(data); got != expected {
		t.Errorf("Hash mismatch: expected %s, got %s", expected, got)
	}
}

func TestXXHashFunc(t *testing.T) {
	data := []byte("test data")

	hashBytes, err := XXHashFunc(data)
	if err != nil {
		t.Fatalf("XXHashFunc failed: %v", err)
	}

	if len(hashBytes) != 8 {
		t.Errorf("Expected 8 bytes, got %d", len(hashBytes))
	}

	// Test consistency - same input should produce same output
	hashBytes2, err := XXHashFunc(data)
	if err != nil {
		t.Fatalf("XXHashFunc failed on second call: %v", err)
	}

	if hex.EncodeToString(hashBytes) != hex.EncodeToString(hashBytes2) {
		t.Error("XXHashFunc should be deterministic")
	}
}

func TestXXHashFunc_EmptyData(t *testing.T) {
	hashBytes, err := XXHashFunc([]byte{})
	if err != nil {
		t.Fatalf("XXHashFunc failed: %v", err)
	}

	if len(hashBytes) != 8 {
		t.Errorf("Expected 8 bytes, got %d", len(hashBytes))
	}
}
