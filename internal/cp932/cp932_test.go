package cp932

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	names := []string{"a.txt", "scene001.ks", "d", ""}
	for _, name := range names {
		field, err := Encode(name)
		if err != nil {
			t.Fatalf("Encode(%q): %v", name, err)
		}
		got := Decode(field[:])
		if got != name {
			t.Errorf("Decode(Encode(%q)): got %q", name, got)
		}
	}
}

func TestEncodeTooLong(t *testing.T) {
	long := "this_name_is_definitely_longer_than_20_bytes.txt"
	if _, err := Encode(long); err == nil {
		t.Errorf("Encode(%q): expected ErrNameTooLong, got nil", long)
	}
}

func TestEncodePadsWithNUL(t *testing.T) {
	field, err := Encode("a.txt")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(field[5:], make([]byte, FieldSize-5)) {
		t.Errorf("expected zero padding after byte 5, got %x", field[5:])
	}
}

func TestDecodeStopsAtNUL(t *testing.T) {
	var field [FieldSize]byte
	copy(field[:], "abc")
	field[3] = 0
	copy(field[4:], "garbage-after-nul")
	if got := Decode(field[:]); got != "abc" {
		t.Errorf("Decode: got %q, want %q", got, "abc")
	}
}
