package maliepak

import (
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/malie-archive/maliepak/internal/cp932"
)

const (
	dataAlignSmall = 0x400  // first-stage data region padding
	dataAlignLarge = 0x1000 // second-stage padding, when the first stage would cross a page
)

// WriteEntry is one entry supplied to Write, carrying exactly the
// structural fields the plaintext writer needs (spec.md section 4.6).
// Directory and file entries use disjoint subsets of the fields;
// comments below mark which.
type WriteEntry struct {
	Name       string
	Kind       Kind
	EntryIndex int

	// Size is the direct child count (directory only); ignored for
	// files, whose on-disk size is always taken from len(Data).
	Size uint32

	// OffsetIndex is this file's slot in the offset table (file only).
	OffsetIndex int
	// Order is this file's rank in the original data-region layout
	// (file only); files are emitted in ascending Order.
	Order int
	// Data is the file's decrypted byte stream (file only).
	Data []byte

	// DirectoryTail is the raw 4 bytes written verbatim at index offset
	// 0x18 (directory only): the format does not require recomputing a
	// directory's locator field, only reproducing it exactly.
	DirectoryTail [4]byte
}

// Write builds a plaintext archive from entries (given in entry_index
// order, index 0..len(entries)) and writes it to path.
func Write(path string, entries []WriteEntry) error {
	buf, err := buildArchive(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// buildArchive renders entries into the complete on-disk byte image
// (spec.md section 4.6, steps 1-6).
func buildArchive(entries []WriteEntry) ([]byte, error) {
	total := len(entries)
	fileCount := 0
	for _, e := range entries {
		if e.Kind == File {
			fileCount++
		}
	}

	indexSize := int64(total) * IndexEntrySize
	offsetTableSize := int64(fileCount) * 4
	preAlign := int64(headerKeyCheckSize) + indexSize + offsetTableSize
	baseOffset := alignUp(preAlign, alignBaseOffset)

	index := make([]byte, indexSize)
	offsetTable := make([]uint32, fileCount)

	for _, e := range entries {
		if e.EntryIndex < 0 || e.EntryIndex >= total {
			return nil, errors.Errorf("maliepak: entry_index %d out of range [0,%d)", e.EntryIndex, total)
		}
		rec := index[int64(e.EntryIndex)*IndexEntrySize : (int64(e.EntryIndex)+1)*IndexEntrySize]

		nameField, err := cp932.Encode(e.Name)
		if err != nil {
			return nil, errors.Wrapf(ErrNameEncoding, "entry %q", e.Name)
		}
		copy(rec[0x00:0x14], nameField[:])

		if e.Kind == File {
			putLeUint32(rec[0x1C:0x20], uint32(len(e.Data)))
			putLeUint32(rec[0x14:0x18], fileFlag)
			if e.OffsetIndex < 0 || e.OffsetIndex >= fileCount {
				return nil, errors.Errorf("maliepak: entry %q offset_index %d out of range", e.Name, e.OffsetIndex)
			}
			putLeUint32(rec[0x18:0x1C], uint32(e.OffsetIndex))
		} else {
			putLeUint32(rec[0x1C:0x20], e.Size)
			putLeUint32(rec[0x14:0x18], 0)
			copy(rec[0x18:0x1C], e.DirectoryTail[:])
		}
	}

	dataBuf, err := layoutData(entries, baseOffset, offsetTable)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(dataBuf))
	copy(out[0:4], headerMagic[:])
	putLeUint32(out[4:8], uint32(total))
	putLeUint32(out[8:12], uint32(fileCount))
	copy(out[headerKeyCheckSize:], index)

	offsetBuf := out[headerKeyCheckSize+indexSize : headerKeyCheckSize+indexSize+offsetTableSize]
	for i, v := range offsetTable {
		putLeUint32(offsetBuf[i*4:i*4+4], v)
	}

	copy(out[baseOffset:], dataBuf[baseOffset:])
	return out, nil
}

// layoutData places each file's bytes in ascending Order starting at
// baseOffset, applying the two-stage alignment rule (spec.md section
// 4.6 step 5), and fills offsetTable's slots with each file's
// (write_offset - baseOffset) in 1024-byte units. It returns a buffer
// sized to hold the header/index/offset-table region plus the full data
// region; callers only use the tail of it (from baseOffset on).
func layoutData(entries []WriteEntry, baseOffset int64, offsetTable []uint32) ([]byte, error) {
	files := make([]WriteEntry, 0, len(entries))
	for _, e := range entries {
		if e.Kind == File {
			files = append(files, e)
		}
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Order < files[j].Order })

	cursor := baseOffset
	type placement struct {
		offset int64
		data   []byte
	}
	placements := make([]placement, 0, len(files))

	for _, e := range files {
		offset := advance(cursor)
		placements = append(placements, placement{offset: offset, data: e.Data})
		cursor = offset + int64(len(e.Data))

		rel := offset - baseOffset
		if rel < 0 || rel%dataAlignSmall != 0 {
			return nil, errors.Errorf("maliepak: internal layout error for entry %q", e.Name)
		}
		if e.OffsetIndex < 0 || e.OffsetIndex >= len(offsetTable) {
			return nil, errors.Errorf("maliepak: entry %q offset_index %d out of range", e.Name, e.OffsetIndex)
		}
		offsetTable[e.OffsetIndex] = uint32(rel >> 10)
	}

	buf := make([]byte, cursor)
	for _, p := range placements {
		copy(buf[p.offset:], p.data)
	}
	return buf, nil
}

// advance returns the next write position at or after cursor: align up
// to dataAlignSmall, unless that crosses a dataAlignLarge page boundary,
// in which case align up to dataAlignLarge instead (spec.md section 4.6
// step 5).
func advance(cursor int64) int64 {
	small := alignUp(cursor, dataAlignSmall)
	if small>>12 != cursor>>12 {
		return alignUp(cursor, dataAlignLarge)
	}
	return small
}
