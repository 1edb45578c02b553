package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	offsetIndex := 0
	order := 0
	tail := "deadbeef"

	doc := Document{Entries: []Entry{
		{ArcPath: "d", EntryIndex: 0, IsDir: true, DirectoryTail: &tail, KeyName: "title-a"},
		{ArcPath: "d/x", EntryIndex: 1, Size: 4, OffsetIndex: &offsetIndex, Order: &order, KeyName: "title-a"},
	}}

	dir := t.TempDir()
	path := filepath.Join(dir, "sidecar.json")
	require.NoError(t, Save(path, doc))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, doc.Entries[0].ArcPath, got.Entries[0].ArcPath)
	assert.Equal(t, *doc.Entries[1].OffsetIndex, *got.Entries[1].OffsetIndex)
	assert.Equal(t, *doc.Entries[1].Order, *got.Entries[1].Order)
	assert.Equal(t, *doc.Entries[0].DirectoryTail, *got.Entries[0].DirectoryTail)
}

func TestLoadToleratesUnrecognizedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sidecar.json")
	raw := `{"entries":[{"arc_path":"a.txt","entry_index":0,"size":4,"is_dir":false,"offset_index":0,"order":0,"key_name":"","future_field":"ignored"}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "a.txt", doc.Entries[0].ArcPath)
}

func TestByPath(t *testing.T) {
	doc := Document{Entries: []Entry{
		{ArcPath: "a"},
		{ArcPath: "b"},
	}}
	m := doc.ByPath()
	assert.Len(t, m, 2)
	_, ok := m["a"]
	assert.True(t, ok)
}
