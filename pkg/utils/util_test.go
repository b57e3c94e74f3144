package utils

import "testing"

func TestHashID_RoundTrip(t *testing.T) {
	h, err := NewHashID("ninety-test")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for _, id := range []int64{1, 42, 1859203847123456789} {
		code := h.Encode(id)
		if len(code) < 8 {
			t.Errorf("code %q shorter than min length", code)
		}
		got, err := h.Decode(code)
		if err != nil {
			t.Fatalf("decode %q: %v", code, err)
		}
		if got != id {
			t.Errorf("decode(%q) = %d, want %d", code, got, id)
		}
	}
}

func TestHashID_DecodeGarbage(t *testing.T) {
	h, _ := NewHashID("ninety-test")
	other, _ := NewHashID("another-salt")

	if _, err := h.Decode(other.Encode(7)); err == nil {
		t.Error("code from another salt should not decode")
	}
}
