package maliepak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malie-archive/maliepak/internal/cp932"
	"github.com/malie-archive/maliepak/view"
)

// buildMinimalArchive constructs the on-disk bytes of a minimal
// plaintext archive per spec.md section 8 scenario 1: one file entry
// "a.txt" holding "test".
func buildMinimalArchive(t *testing.T) []byte {
	t.Helper()

	const (
		dataOffset = 0x1000
		fileBytes  = "test"
	)
	total := uint32(1)
	fileCount := uint32(1)

	indexSize := int64(total) * IndexEntrySize
	offsetTableSize := int64(fileCount) * 4
	preAlign := int64(headerKeyCheckSize) + indexSize + offsetTableSize
	require.Equal(t, int64(0x34), preAlign)

	buf := make([]byte, dataOffset+len(fileBytes))
	copy(buf[0:4], headerMagic[:])
	putLeUint32(buf[4:8], total)
	putLeUint32(buf[8:12], fileCount)

	rec := buf[headerKeyCheckSize : headerKeyCheckSize+IndexEntrySize]
	nameField, err := cp932.Encode("a.txt")
	require.NoError(t, err)
	copy(rec[0:0x14], nameField[:])
	putLeUint32(rec[0x14:0x18], fileFlag)
	putLeUint32(rec[0x18:0x1C], 0) // offset_index
	putLeUint32(rec[0x1C:0x20], uint32(len(fileBytes)))

	offsetBuf := buf[headerKeyCheckSize+indexSize : headerKeyCheckSize+indexSize+offsetTableSize]
	putLeUint32(offsetBuf[0:4], 0)

	copy(buf[dataOffset:], fileBytes)
	return buf
}

func TestOpenPlainMinimalArchive(t *testing.T) {
	buf := buildMinimalArchive(t)
	v := view.FromBytes(buf)

	a, err := OpenPlain(v)
	require.NoError(t, err)
	defer a.Close()

	require.Len(t, a.Entries(), 1)
	e := a.Entries()[0]
	assert.Equal(t, "a.txt", e.Name)
	assert.Equal(t, uint32(4), e.Size)
	assert.Equal(t, int64(0x1000), e.RawOffset)
	assert.Equal(t, 0, e.Order)

	data, err := a.ReadEntry(e)
	require.NoError(t, err)
	assert.Equal(t, "test", string(data))
}

func TestOpenRejectsBadMagic(t *testing.T) {
	buf := buildMinimalArchive(t)
	buf[0] = 'X'
	v := view.FromBytes(buf)

	_, err := OpenPlain(v)
	assert.ErrorIs(t, err, ErrNoMatchingKey)
}

func TestOpenKeyTrialPicksCorrectKey(t *testing.T) {
	// A full-block-aligned variant of buildMinimalArchive: the data
	// region is exactly 16 bytes so the whole file, once encrypted, is
	// a whole number of Camellia blocks (no short-block edge case).
	const dataOffset = 0x1000
	fileBytes := []byte("testtesttesttest")

	total := uint32(1)
	fileCount := uint32(1)
	plain := make([]byte, dataOffset+len(fileBytes))
	copy(plain[0:4], headerMagic[:])
	putLeUint32(plain[4:8], total)
	putLeUint32(plain[8:12], fileCount)

	rec := plain[headerKeyCheckSize : headerKeyCheckSize+IndexEntrySize]
	nameField, err := cp932.Encode("a.txt")
	require.NoError(t, err)
	copy(rec[0:0x14], nameField[:])
	putLeUint32(rec[0x14:0x18], fileFlag)
	putLeUint32(rec[0x18:0x1C], 0)
	putLeUint32(rec[0x1C:0x20], 4)

	offsetBuf := plain[headerKeyCheckSize+IndexEntrySize:]
	putLeUint32(offsetBuf[0:4], 0)
	copy(plain[dataOffset:], fileBytes)

	key := Key{Label: "title-2"}
	for i := range key.Bytes {
		key.Bytes[i] = byte(i)
	}
	block := key.cipher()

	enc := make([]byte, len(plain))
	copy(enc, plain)
	for off := 0; off+16 <= len(enc); off += 16 {
		block.Encrypt(enc[off:off+16], enc[off:off+16])
	}

	catalog := NewCatalog(
		Key{Label: "title-1"},
		key,
		Key{Label: "title-3"},
	)

	v := view.FromBytes(enc)
	a, err := Open(v, catalog)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "title-2", a.KeyName())
	require.Len(t, a.Entries(), 1)
	data, err := a.ReadEntry(a.Entries()[0])
	require.NoError(t, err)
	assert.Equal(t, "test", string(data))
}

func TestDFSDirectoryReconstruction(t *testing.T) {
	total := uint32(3)
	fileCount := uint32(2)

	indexSize := int64(total) * IndexEntrySize
	offsetTableSize := int64(fileCount) * 4
	preAlign := int64(headerKeyCheckSize) + indexSize + offsetTableSize
	base := alignUp(preAlign, alignBaseOffset)

	buf := make([]byte, base+8)
	copy(buf[0:4], headerMagic[:])
	putLeUint32(buf[4:8], total)
	putLeUint32(buf[8:12], fileCount)

	writeEntry := func(idx int, name string, flags, locator, size uint32) {
		rec := buf[int64(headerKeyCheckSize)+int64(idx)*IndexEntrySize:]
		nameField, err := cp932.Encode(name)
		require.NoError(t, err)
		copy(rec[0:0x14], nameField[:])
		putLeUint32(rec[0x14:0x18], flags)
		putLeUint32(rec[0x18:0x1C], locator)
		putLeUint32(rec[0x1C:0x20], size)
	}

	writeEntry(0, "d", 0, 1, 2) // directory, first child at index 1, 2 children
	writeEntry(1, "x", fileFlag, 0, 4)
	writeEntry(2, "y", fileFlag, 1, 4)

	offsetBuf := buf[int64(headerKeyCheckSize)+indexSize:]
	putLeUint32(offsetBuf[0:4], 0)
	putLeUint32(offsetBuf[4:8], 1)
	copy(buf[base:base+4], "abcd")
	copy(buf[base+4:base+8], "efgh")

	v := view.FromBytes(buf)
	a, err := OpenPlain(v)
	require.NoError(t, err)
	defer a.Close()

	require.Len(t, a.Entries(), 3)
	assert.Equal(t, []string{"d", "d/x", "d/y"}, []string{
		a.Entries()[0].Path, a.Entries()[1].Path, a.Entries()[2].Path,
	})
	assert.True(t, a.Entries()[0].IsDir())
	assert.False(t, a.Entries()[1].IsDir())
}
