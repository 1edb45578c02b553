package maliepak

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/malie-archive/maliepak/sidecar"
)

// ExportSidecar builds a sidecar.Document describing every entry in a,
// suitable for saving alongside an unpacked tree (spec.md section 4.7).
func (a *Archive) ExportSidecar() sidecar.Document {
	doc := sidecar.Document{Entries: make([]sidecar.Entry, 0, len(a.entries))}
	for _, e := range a.entries {
		se := sidecar.Entry{
			ArcPath:    e.Path,
			EntryIndex: e.EntryIndex,
			Size:       e.Size,
			IsDir:      e.IsDir(),
			KeyName:    a.keyLabel,
		}
		if e.IsDir() {
			tail := hex.EncodeToString(e.DirectoryTail[:])
			se.DirectoryTail = &tail
		} else {
			oi, order := e.OffsetIndex, e.Order
			se.OffsetIndex = &oi
			se.Order = &order
		}
		doc.Entries = append(doc.Entries, se)
	}
	return doc
}

// RepackSource is one entry of the caller's directory walk supplied to
// Reconcile: its archive-relative path, whether it is a directory, and
// (for files) its decrypted byte content.
type RepackSource struct {
	Path  string
	IsDir bool
	Data  []byte // file only
}

// Reconcile merges a directory walk against a sidecar document, producing
// the WriteEntry list Write expects, indexed by entry_index. It fails
// with ErrSidecarMismatch if a file is present on one side and absent
// from the other, or if an entry_index is reused, missing, or otherwise
// inconsistent (spec.md section 4.7).
func Reconcile(sources []RepackSource, doc sidecar.Document) ([]WriteEntry, error) {
	byPath := doc.ByPath()
	seen := make(map[string]bool, len(sources))

	maxIndex := -1
	for _, se := range doc.Entries {
		if se.EntryIndex > maxIndex {
			maxIndex = se.EntryIndex
		}
	}
	if maxIndex < 0 {
		return nil, errors.Wrap(ErrSidecarMismatch, "sidecar has no entries")
	}

	entries := make([]WriteEntry, maxIndex+1)
	filled := make([]bool, maxIndex+1)

	for _, src := range sources {
		seen[src.Path] = true
		se, ok := byPath[src.Path]
		if !ok {
			return nil, errors.Wrapf(ErrSidecarMismatch, "%q not present in sidecar", src.Path)
		}
		if se.IsDir != src.IsDir {
			return nil, errors.Wrapf(ErrSidecarMismatch, "%q kind disagrees with sidecar", src.Path)
		}
		if se.EntryIndex < 0 || se.EntryIndex > maxIndex || filled[se.EntryIndex] {
			return nil, errors.Wrapf(ErrSidecarMismatch, "%q has a conflicting entry_index %d", src.Path, se.EntryIndex)
		}

		we := WriteEntry{
			Name:       baseName(src.Path),
			EntryIndex: se.EntryIndex,
			Size:       se.Size,
		}
		if src.IsDir {
			we.Kind = Directory
			if se.DirectoryTail == nil {
				return nil, errors.Wrapf(ErrSidecarMismatch, "%q missing directory_tail", src.Path)
			}
			tail, err := hex.DecodeString(*se.DirectoryTail)
			if err != nil || len(tail) != len(we.DirectoryTail) {
				return nil, errors.Wrapf(ErrSidecarMismatch, "%q has a malformed directory_tail", src.Path)
			}
			copy(we.DirectoryTail[:], tail)
		} else {
			if se.OffsetIndex == nil || se.Order == nil {
				return nil, errors.Wrapf(ErrSidecarMismatch, "%q missing offset_index or order", src.Path)
			}
			we.Kind = File
			we.Data = src.Data
			we.Size = uint32(len(src.Data))
			we.OffsetIndex = *se.OffsetIndex
			we.Order = *se.Order
		}

		entries[se.EntryIndex] = we
		filled[se.EntryIndex] = true
	}

	for _, se := range doc.Entries {
		if !seen[se.ArcPath] {
			return nil, errors.Wrapf(ErrSidecarMismatch, "%q present in sidecar but not on disk", se.ArcPath)
		}
	}
	for i, ok := range filled {
		if !ok {
			return nil, errors.Wrapf(ErrSidecarMismatch, "entry_index %d never assigned", i)
		}
	}

	return entries, nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
