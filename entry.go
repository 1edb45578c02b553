package maliepak

// IndexEntrySize is the fixed stride, in bytes, of one index table record
// (spec.md section 3: name[20] | flags:u32 | locator:u32 | size:u32).
const IndexEntrySize = 0x20

// Bit 0x10000 of an index record's flags field marks a file; clear means
// directory.
const fileFlag = 0x10000

// directoryTailOffset is the byte offset, within one 32-byte index
// record, of the 4 opaque bytes a directory record carries and that must
// be preserved verbatim across unpack/repack.
const directoryTailOffset = 0x18

// Kind distinguishes file entries from directory entries.
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "directory"
	}
	return "file"
}

// Entry is one record of an open (or about-to-be-written) archive: either
// a file or a directory, carrying both the fields the wire format needs
// and the structural bookkeeping (Path, Order) metadata replay requires
// for bit-faithful repacking.
type Entry struct {
	// Path is the '/'-joined name path from the archive root, e.g. "d/x".
	Path string
	// Name is this entry's own CP932-decoded name (no path components).
	Name string
	Kind Kind

	// EntryIndex is this entry's stable position in the index table.
	EntryIndex int

	// Size is the file's uncompressed byte count (file) or its direct
	// child count (directory).
	Size uint32

	// OffsetIndex is the index into the offset table (file only).
	OffsetIndex int

	// DirectoryTail is the opaque 4 bytes at index offset 0x18 (directory
	// only), preserved verbatim across unpack/repack.
	DirectoryTail [4]byte

	// RawOffset is the absolute file offset of this entry's data (file
	// only), computed on read and required on write.
	RawOffset int64

	// Order is the 0-based rank of this file entry when all file entries
	// are sorted by ascending RawOffset, assigned on unpack and required
	// by the writer to reproduce the original data region layout. -1 for
	// directories and for entries not yet assigned an order.
	Order int
}

// IsDir reports whether e is a directory entry.
func (e *Entry) IsDir() bool { return e.Kind == Directory }
