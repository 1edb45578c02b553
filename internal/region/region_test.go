package region

import (
	"bytes"
	"testing"

	"github.com/malie-archive/maliepak/internal/camellia"
)

type memRegion struct {
	buf []byte
}

func (m *memRegion) ReadAt(dst []byte, off int64) int {
	if off < 0 || off >= int64(len(m.buf)) {
		return 0
	}
	return copy(dst, m.buf[off:])
}

func (m *memRegion) WriteAt(src []byte, off int64) {
	end := off + int64(len(src))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[off:end], src)
}

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i*13 + 1)
	}
	return key
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	block, err := camellia.NewCipher(testKey())
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	m := &memRegion{buf: make([]byte, 64)}
	payload := []byte("hello, encrypted region padding across blocks!")

	for _, off := range []int64{0, 3, 16, 17, 31} {
		m = &memRegion{buf: make([]byte, 64)}
		Write(m, block, off, payload)

		got := make([]byte, len(payload))
		n := Read(m, block, off, got)
		if n != len(payload) {
			t.Fatalf("off=%d: got n=%d, want %d", off, n, len(payload))
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("off=%d: round trip mismatch: got %q, want %q", off, got, payload)
		}
	}
}

func TestReadZeroLength(t *testing.T) {
	block, _ := camellia.NewCipher(testKey())
	m := &memRegion{buf: make([]byte, 16)}
	if n := Read(m, block, 5, nil); n != 0 {
		t.Errorf("zero-length read: got n=%d, want 0", n)
	}
}

func TestReadPastEOF(t *testing.T) {
	block, _ := camellia.NewCipher(testKey())
	m := &memRegion{buf: make([]byte, 16)}
	dst := make([]byte, 8)
	if n := Read(m, block, 100, dst); n != 0 {
		t.Errorf("read wholly past EOF: got n=%d, want 0", n)
	}
}

func TestNullCipherPassesThrough(t *testing.T) {
	m := &memRegion{buf: make([]byte, 32)}
	payload := []byte("plaintext passthrough")
	Write(m, NullCipher{}, 2, payload)

	got := make([]byte, len(payload))
	Read(m, NullCipher{}, 2, got)
	if !bytes.Equal(got, payload) {
		t.Errorf("null cipher round trip: got %q, want %q", got, payload)
	}
}
