package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotesDocumentIsEmptyButMaterialized(t *testing.T) {
	doc := NewNotesDocument("r1")

	assert.Equal(t, "r1", doc.RoomID)
	require.NotNil(t, doc.Folders)
	require.NotNil(t, doc.ItemsMap)
	assert.Len(t, doc.Folders, 0)
	assert.Len(t, doc.ItemsMap, 0)
}

func TestUpsertKVAppendsNewKeysInOrder(t *testing.T) {
	doc := NewNotesDocument("r1")

	doc.UpsertKV("f1", "color", "blue")
	doc.UpsertKV("f1", "size", "large")
	doc.UpsertKV("f1", "weight", "3kg")

	require.Equal(t, []KVItem{
		{Key: "color", Value: "blue"},
		{Key: "size", Value: "large"},
		{Key: "weight", Value: "3kg"},
	}, doc.ItemsMap["f1"])
}

func TestUpsertKVReplacesInPlace(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.UpsertKV("f1", "color", "blue")
	doc.UpsertKV("f1", "size", "large")

	doc.UpsertKV("f1", "color", "red")

	// Same length, same positions, only the value changed.
	require.Equal(t, []KVItem{
		{Key: "color", Value: "red"},
		{Key: "size", Value: "large"},
	}, doc.ItemsMap["f1"])
}

func TestUpsertKVIsIdempotent(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.UpsertKV("f1", "color", "blue")
	doc.UpsertKV("f1", "color", "blue")

	require.Equal(t, []KVItem{{Key: "color", Value: "blue"}}, doc.ItemsMap["f1"])
}

func TestUpsertKVAllowsEmptyValue(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.UpsertKV("f1", "draft", "")

	require.Equal(t, []KVItem{{Key: "draft", Value: ""}}, doc.ItemsMap["f1"])
}

func TestListKVUnknownFolderIsEmptyList(t *testing.T) {
	doc := NewNotesDocument("r1")

	items := doc.ListKV("nope")

	require.NotNil(t, items)
	assert.Len(t, items, 0)
}

func TestDeleteKVAbsentKeyIsNoOp(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.UpsertKV("f1", "color", "blue")

	assert.False(t, doc.DeleteKV("f1", "size"))
	assert.False(t, doc.DeleteKV("f2", "color"))
	require.Equal(t, []KVItem{{Key: "color", Value: "blue"}}, doc.ItemsMap["f1"])
}

func TestDeleteKVRemovesOnlyTheKey(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.UpsertKV("f1", "color", "blue")
	doc.UpsertKV("f1", "size", "large")

	assert.True(t, doc.DeleteKV("f1", "color"))
	require.Equal(t, []KVItem{{Key: "size", Value: "large"}}, doc.ItemsMap["f1"])
}

func TestRenameFolderInPlace(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.AddFolder(NoteFolder{ID: "f1", Name: "Quotes"})
	doc.AddFolder(NoteFolder{ID: "f2", Name: "Links"})

	assert.True(t, doc.RenameFolder("f1", "Best Quotes"))
	require.Equal(t, []NoteFolder{
		{ID: "f1", Name: "Best Quotes"},
		{ID: "f2", Name: "Links"},
	}, doc.Folders)

	assert.False(t, doc.RenameFolder("missing", "x"))
}

func TestRemoveFolderDropsItemsMapEntry(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.AddFolder(NoteFolder{ID: "f1", Name: "Quotes"})
	doc.UpsertKV("f1", "color", "blue")

	assert.True(t, doc.RemoveFolder("f1"))
	assert.Len(t, doc.Folders, 0)
	_, ok := doc.ItemsMap["f1"]
	assert.False(t, ok)

	// And a folder with no items entry yet removes cleanly too.
	doc.AddFolder(NoteFolder{ID: "f2", Name: "Links"})
	assert.True(t, doc.RemoveFolder("f2"))
	assert.False(t, doc.RemoveFolder("f2"))
}

func TestNotesCloneIsIndependent(t *testing.T) {
	doc := NewNotesDocument("r1")
	doc.AddFolder(NoteFolder{ID: "f1", Name: "Quotes"})
	doc.UpsertKV("f1", "color", "blue")

	clone := doc.Clone()
	clone.UpsertKV("f1", "color", "red")
	clone.AddFolder(NoteFolder{ID: "f2", Name: "Links"})

	require.Equal(t, []KVItem{{Key: "color", Value: "blue"}}, doc.ItemsMap["f1"])
	assert.Len(t, doc.Folders, 1)
}
