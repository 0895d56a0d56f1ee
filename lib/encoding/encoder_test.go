package encoding

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testSnapshot() Snapshot {
	return Snapshot{
		State: map[string]any{
			"count": 12345,
			"name":  "test-file.txt",
			"open":  true,
			"tags":  []string{"a", "b"},
			"user":  map[string]any{"id": 7},
			"ratio": 0.5,
			"none":  nil,
		},
		Props: map[string]any{"title": "Files"},
	}
}

// wantDecoded is testSnapshot after a round trip: every integer comes back
// as int64 regardless of the width msgpack picked.
func wantDecoded() Snapshot {
	return Snapshot{
		State: map[string]any{
			"count": int64(12345),
			"name":  "test-file.txt",
			"open":  true,
			"tags":  []any{"a", "b"},
			"user":  map[string]any{"id": int64(7)},
			"ratio": 0.5,
			"none":  nil,
		},
		Props: map[string]any{"title": "Files"},
	}
}

func TestDecodeNormalizesNumbers(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	in := Snapshot{State: map[string]any{
		"small":  uint8(1),
		"big":    uint64(1) << 40,
		"huge":   uint64(math.MaxUint64),
		"neg":    int32(-3),
		"single": float32(0.5),
		"nested": []any{map[string]any{"id": 9}},
	}}
	encoded, err := enc.Encode(in, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := enc.Decode(encoded, false)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := map[string]any{
		"small":  int64(1),
		"big":    int64(1) << 40,
		"huge":   uint64(math.MaxUint64),
		"neg":    int64(-3),
		"single": float64(0.5),
		"nested": []any{map[string]any{"id": int64(9)}},
	}
	if diff := cmp.Diff(want, got.State); diff != "" {
		t.Errorf("decoded state mismatch (-want +got):\n%s", diff)
	}
}

func TestNewEncoder(t *testing.T) {
	// Should work with any key length (derives 32-byte key)
	for _, key := range []string{"short", "this-is-a-32-byte-key-for-aes!!!", strings.Repeat("k", 48)} {
		if _, err := NewEncoder([]byte(key)); err != nil {
			t.Fatalf("NewEncoder(%d bytes) failed: %v", len(key), err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, sensitive := range []bool{false, true} {
		name := "signed"
		if sensitive {
			name = "encrypted"
		}
		t.Run(name, func(t *testing.T) {
			enc, err := NewEncoder([]byte("test-key"))
			if err != nil {
				t.Fatalf("NewEncoder failed: %v", err)
			}

			encoded, err := enc.Encode(testSnapshot(), sensitive)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if encoded == "" {
				t.Fatal("Encoded string is empty")
			}
			if !sensitive && !strings.Contains(encoded, ".") {
				t.Errorf("signed encoding %q has no signature separator", encoded)
			}

			decoded, err := enc.Decode(encoded, sensitive)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(wantDecoded(), decoded); diff != "" {
				t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSignatureVerificationFailure(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	encoded, err := enc.Encode(testSnapshot(), false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Tamper with the encoded string
	tampered := encoded[:len(encoded)-2] + "XX"

	_, err = enc.Decode(tampered, false)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("Expected ErrSignatureInvalid, got: %v", err)
	}
}

func TestDecryptionFailure(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	encoded, err := enc.Encode(testSnapshot(), true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Tamper with the encrypted string
	tampered := encoded[:len(encoded)-2] + "XX"

	_, err = enc.Decode(tampered, true)
	if !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Expected ErrDecryptFailed, got: %v", err)
	}
}

func TestInvalidFormat(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	// Missing signature separator
	_, err = enc.Decode("invalidbase64withoutseparator", false)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got: %v", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	enc1, _ := NewEncoder([]byte("key-one"))
	enc2, _ := NewEncoder([]byte("key-two"))

	// Encode with key 1
	encoded, err := enc1.Encode(testSnapshot(), false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Try to decode with key 2
	if _, err := enc2.Decode(encoded, false); err == nil {
		t.Error("Expected error when decoding with different key")
	}
}

func TestEmptySnapshot(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	encoded, err := enc.Encode(Snapshot{}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := enc.Decode(encoded, false)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.State == nil || len(decoded.State) != 0 {
		t.Errorf("State = %#v, want empty map", decoded.State)
	}
	if len(decoded.Props) != 0 {
		t.Errorf("Props = %#v, want empty", decoded.Props)
	}
}
