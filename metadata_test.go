package maliepak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malie-archive/maliepak/sidecar"
	"github.com/malie-archive/maliepak/view"
)

func exportDocFor(t *testing.T, entries []WriteEntry) sidecar.Document {
	t.Helper()
	buf, err := buildArchive(entries)
	require.NoError(t, err)

	a, err := OpenPlain(view.FromBytes(buf))
	require.NoError(t, err)
	defer a.Close()

	return a.ExportSidecar()
}

func TestExportReconcileWriteRoundTrip(t *testing.T) {
	original := []WriteEntry{
		{Name: "d", Kind: Directory, EntryIndex: 0, Size: 2, DirectoryTail: [4]byte{0x01, 0x00, 0x00, 0x00}},
		{Name: "x", Kind: File, EntryIndex: 1, OffsetIndex: 0, Order: 0, Data: []byte("hello")},
		{Name: "y", Kind: File, EntryIndex: 2, OffsetIndex: 1, Order: 1, Data: []byte("world!!")},
	}
	buf, err := buildArchive(original)
	require.NoError(t, err)

	a, err := OpenPlain(view.FromBytes(buf))
	require.NoError(t, err)

	doc := a.ExportSidecar()
	var sources []RepackSource
	for _, e := range a.Entries() {
		src := RepackSource{Path: e.Path, IsDir: e.IsDir()}
		if !e.IsDir() {
			data, err := a.ReadEntry(e)
			require.NoError(t, err)
			src.Data = data
		}
		sources = append(sources, src)
	}
	require.NoError(t, a.Close())

	entries, err := Reconcile(sources, doc)
	require.NoError(t, err)

	rebuilt, err := buildArchive(entries)
	require.NoError(t, err)
	assert.Equal(t, buf, rebuilt)
}

func TestReconcileDetectsMissingFile(t *testing.T) {
	doc := exportDocFor(t, []WriteEntry{
		{Name: "x", Kind: File, EntryIndex: 0, OffsetIndex: 0, Order: 0, Data: []byte("a")},
	})

	_, err := Reconcile(nil, doc)
	assert.ErrorIs(t, err, ErrSidecarMismatch)
}

func TestReconcileDetectsExtraFile(t *testing.T) {
	doc := exportDocFor(t, []WriteEntry{
		{Name: "x", Kind: File, EntryIndex: 0, OffsetIndex: 0, Order: 0, Data: []byte("a")},
	})

	sources := []RepackSource{
		{Path: "x", Data: []byte("a")},
		{Path: "extra.txt", Data: []byte("b")},
	}
	_, err := Reconcile(sources, doc)
	assert.ErrorIs(t, err, ErrSidecarMismatch)
}
