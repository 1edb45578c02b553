// Package sidecar implements the metadata-replay document that makes
// plaintext repacking bit-faithful: a per-entry record of every
// structural field the archive writer cannot otherwise recover from an
// extracted filesystem tree (entry_index, offset_index, order, the
// opaque directory tail bytes, and the key label an archive was opened
// with).
package sidecar

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is one record of a sidecar document (spec.md section 6,
// "Sidecar metadata document"). OffsetIndex and Order are nil for
// directories. Unrecognized extra fields on load are tolerated by
// jsoniter's default lenient decoding; fields this type doesn't declare
// are silently dropped rather than rejected.
type Entry struct {
	ArcPath       string  `json:"arc_path"`
	EntryIndex    int     `json:"entry_index"`
	OffsetIndex   *int    `json:"offset_index"`
	Order         *int    `json:"order"`
	Size          uint32  `json:"size"`
	IsDir         bool    `json:"is_dir"`
	DirectoryTail *string `json:"directory_tail,omitempty"`
	KeyName       string  `json:"key_name"`
}

// Document is the full sidecar: one Entry per archive entry, in no
// particular order (ArcPath and EntryIndex are both given on each
// entry, so load does not depend on document order).
type Document struct {
	Entries []Entry `json:"entries"`
}

// Save writes doc to path as indented JSON.
func Save(path string, doc Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "sidecar: marshal")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "sidecar: write")
	}
	return nil
}

// Load reads a sidecar document from path.
func Load(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "sidecar: read")
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Document{}, errors.Wrap(err, "sidecar: unmarshal")
	}
	return doc, nil
}

// ByPath indexes a document's entries by ArcPath for repack lookups.
func (d Document) ByPath() map[string]Entry {
	m := make(map[string]Entry, len(d.Entries))
	for _, e := range d.Entries {
		m[e.ArcPath] = e
	}
	return m
}
