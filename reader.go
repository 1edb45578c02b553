package maliepak

import (
	"crypto/cipher"
	"sort"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog/log"

	"github.com/malie-archive/maliepak/internal/cp932"
	"github.com/malie-archive/maliepak/internal/region"
	"github.com/malie-archive/maliepak/view"
)

const (
	alignBaseOffset = 0x1000 // base_offset is always 4096-byte aligned
)

// Archive is an open archive handle: the byte view, the decryptor that
// unlocked it (or region.NullCipher{} for plaintext), the key label used,
// the computed base_offset, and the fully-walked entry list.
//
// An Archive's byte view is shared read-only by every Entry derived from
// it; closing the view invalidates them all. The decryptor is immutable
// once constructed and may be reused for arbitrarily many reads.
type Archive struct {
	v           *view.View
	block       cipher.Block
	keyLabel    string
	baseOffset  int64
	entries     []*Entry
	offsetTable []uint32
}

// KeyName returns the label of the catalog key that opened this archive,
// or "" for a plaintext archive.
func (a *Archive) KeyName() string { return a.keyLabel }

// BaseOffset returns the 4096-byte-aligned file offset where the data
// region begins.
func (a *Archive) BaseOffset() int64 { return a.baseOffset }

// Entries returns the archive's entry list in stable pre-order DFS walk
// order (directories before their children), which need not match
// EntryIndex order.
func (a *Archive) Entries() []*Entry { return a.entries }

// Open tries each key in the catalog, in order, against v, returning the
// first Archive that decrypts to a valid header and a non-empty entry
// list. It returns ErrNoMatchingKey if no key in the catalog works; the
// caller may then retry with OpenPlain.
func Open(v *view.View, catalog Catalog) (*Archive, error) {
	for _, k := range catalog {
		a, err := tryOpen(v, k.cipher(), k.Label)
		if err == nil {
			return a, nil
		}
		// Local parse failures advance to the next key; they are never
		// surfaced to the caller (spec.md section 4.5/7).
	}
	return nil, errors.WithStack(ErrNoMatchingKey)
}

// OpenPlain opens v as a plaintext archive (a null decryptor that passes
// bytes through unchanged).
func OpenPlain(v *view.View) (*Archive, error) {
	return tryOpen(v, region.NullCipher{}, "")
}

// tryOpen runs the full opening protocol (spec.md section 4.5) for one
// candidate decryptor. Every failure returns one of the package
// sentinels (bare, or wrapped with a stack for failures found during the
// index walk); Open's trial loop treats any error as "try the next key",
// and OpenPlain passes the error to its caller since there is no next
// key to try.
func tryOpen(v *view.View, block cipher.Block, label string) (*Archive, error) {
	scratch := make([]byte, headerKeyCheckSize)
	n := region.Read(v, block, 0, scratch)
	if n < headerKeyCheckSize {
		return nil, ErrTruncatedRead
	}

	h, ok := parseHeader(scratch)
	if !ok {
		return nil, ErrNoMatchingKey
	}
	if h.totalEntryCount == 0 {
		return nil, ErrMalformedArchive
	}

	indexSize := int64(h.totalEntryCount) * IndexEntrySize
	offsetTableSize := int64(h.fileEntryCount) * 4

	indexBuf := make([]byte, indexSize)
	if n := region.Read(v, block, headerKeyCheckSize, indexBuf); int64(n) != indexSize {
		return nil, ErrTruncatedRead
	}

	offsetBuf := make([]byte, offsetTableSize)
	if n := region.Read(v, block, headerKeyCheckSize+indexSize, offsetBuf); int64(n) != offsetTableSize {
		return nil, ErrTruncatedRead
	}

	preAlign := int64(headerKeyCheckSize) + indexSize + offsetTableSize
	baseOffset := alignUp(preAlign, alignBaseOffset)

	offsetTable := make([]uint32, h.fileEntryCount)
	for i := range offsetTable {
		offsetTable[i] = leUint32(offsetBuf[i*4 : i*4+4])
	}

	a := &Archive{
		v:           v,
		block:       block,
		keyLabel:    label,
		baseOffset:  baseOffset,
		offsetTable: offsetTable,
	}

	w := &dfsWalker{
		a:         a,
		indexBuf:  indexBuf,
		total:     int(h.totalEntryCount),
		fileCount: int(h.fileEntryCount),
	}
	if err := w.walkDir("", 0, 1); err != nil {
		return nil, err
	}

	if len(a.entries) == 0 {
		return nil, ErrMalformedArchive
	}
	assignOrder(a.entries)
	return a, nil
}

// assignOrder computes each file entry's Order: its 0-based rank among
// all file entries when sorted by ascending RawOffset (spec.md section
// 4.7). Directories keep Order == -1.
func assignOrder(entries []*Entry) {
	files := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].RawOffset < files[j].RawOffset
	})
	for rank, e := range files {
		e.Order = rank
	}
}

func alignUp(n, align int64) int64 {
	return (n + align - 1) / align * align
}

// dfsWalker rebuilds the entry tree by walking the decrypted index table
// in pre-order, starting at the implicit root (entry 0, count 1).
type dfsWalker struct {
	a         *Archive
	indexBuf  []byte
	total     int
	fileCount int
}

// walkDir reads count consecutive index records starting at entryIndex,
// appending each to the archive's entry list and recursing into
// directories (spec.md section 4.5, "DFS walk").
func (w *dfsWalker) walkDir(parentPath string, entryIndex, count int) error {
	for i := 0; i < count; i++ {
		idx := entryIndex + i
		if idx < 0 || idx >= w.total {
			return errors.WithStack(ErrMalformedArchive)
		}

		rec := w.indexBuf[idx*IndexEntrySize : (idx+1)*IndexEntrySize]
		name := cp932.Decode(rec[0:0x14])
		flags := leUint32(rec[0x14:0x18])
		locator := int32(leUint32(rec[0x18:0x1C]))
		size := leUint32(rec[0x1C:0x20])

		path := name
		if parentPath != "" {
			path = parentPath + "/" + name
		}

		isDir := flags&fileFlag == 0
		e := &Entry{
			Path:       path,
			Name:       name,
			EntryIndex: idx,
			Size:       size,
			Order:      -1,
		}

		if isDir {
			e.Kind = Directory
			e.OffsetIndex = -1
			copy(e.DirectoryTail[:], rec[directoryTailOffset:directoryTailOffset+4])
			if e.DirectoryTail != ([4]byte{}) {
				log.Debug().Str("path", path).Hex("tail", e.DirectoryTail[:]).
					Msg("preserved non-zero directory tail (meaning unknown)")
			}
			w.a.entries = append(w.a.entries, e)

			if int(locator) > idx {
				if err := w.walkDir(path, int(locator), int(size)); err != nil {
					return err
				}
			}
		} else {
			e.Kind = File
			offsetIndex := int(locator)
			if offsetIndex < 0 || offsetIndex >= len(w.a.offsetTable) {
				return errors.WithStack(ErrMalformedArchive)
			}
			e.OffsetIndex = offsetIndex
			e.RawOffset = w.a.baseOffset + (int64(w.a.offsetTable[offsetIndex]) << 10)
			w.a.entries = append(w.a.entries, e)
		}
	}
	return nil
}

// ReadEntry returns the decrypted byte stream for a file entry.
func (a *Archive) ReadEntry(e *Entry) ([]byte, error) {
	if e.IsDir() {
		return nil, errors.Errorf("maliepak: entry %q is a directory", e.Path)
	}
	buf := make([]byte, e.Size)
	n := region.Read(a.v, a.block, e.RawOffset, buf)
	if uint32(n) != e.Size {
		return nil, errors.WithStack(ErrTruncatedRead)
	}
	return buf, nil
}

// DecryptFull decrypts the archive's entire backing file and returns it
// as a single buffer, ignoring structure entirely. This backs the
// `unpack-plain` command surface (spec.md section 6), which exists for
// callers that only need the archive's key identified and its bytes
// decrypted in place, not its entry tree walked.
func (a *Archive) DecryptFull() ([]byte, error) {
	n := a.v.Len()
	buf := make([]byte, n)
	if got := region.Read(a.v, a.block, 0, buf); int64(got) != n {
		return nil, errors.WithStack(ErrTruncatedRead)
	}
	return buf, nil
}

// Close releases the archive's underlying byte view.
func (a *Archive) Close() error {
	return a.v.Close()
}
