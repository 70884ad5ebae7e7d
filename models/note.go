package models

// NoteFolder is a flat, non-nested bucket of key/value notes inside a room.
type NoteFolder struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// KVItem is a single key/value note. Keys are unique within their folder.
type KVItem struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

// NotesDocument is the per-room notes overlay: one document per room,
// created lazily on the first mutating call.
type NotesDocument struct {
	RoomID   string              `bson:"room_id" json:"roomId"`
	Folders  []NoteFolder        `bson:"folders" json:"folders"`
	ItemsMap map[string][]KVItem `bson:"items_map" json:"itemsMap"`
}

// NewNotesDocument returns the empty default document for a room. Collections
// are materialized so an absent room serializes as [] / {} rather than null.
func NewNotesDocument(roomID string) *NotesDocument {
	return &NotesDocument{
		RoomID:   roomID,
		Folders:  []NoteFolder{},
		ItemsMap: map[string][]KVItem{},
	}
}

// Normalize backfills collections that decoded as nil so every caller can
// treat them as present.
func (d *NotesDocument) Normalize() {
	if d.Folders == nil {
		d.Folders = []NoteFolder{}
	}
	if d.ItemsMap == nil {
		d.ItemsMap = map[string][]KVItem{}
	}
}

// Clone returns a deep copy, so a stored document cannot be mutated through
// a value handed to a caller.
func (d *NotesDocument) Clone() *NotesDocument {
	out := &NotesDocument{
		RoomID:   d.RoomID,
		Folders:  append([]NoteFolder{}, d.Folders...),
		ItemsMap: make(map[string][]KVItem, len(d.ItemsMap)),
	}
	for folderID, items := range d.ItemsMap {
		out.ItemsMap[folderID] = append([]KVItem{}, items...)
	}
	return out
}

// AddFolder appends a folder to the flat folder list. The items map entry is
// created lazily on the first upsert, not here.
func (d *NotesDocument) AddFolder(folder NoteFolder) {
	d.Folders = append(d.Folders, folder)
}

// RenameFolder replaces the name of the folder with the given id in place.
// Returns false when no folder matches; callers treat that as a no-op.
func (d *NotesDocument) RenameFolder(folderID, name string) bool {
	for i := range d.Folders {
		if d.Folders[i].ID == folderID {
			d.Folders[i].Name = name
			return true
		}
	}
	return false
}

// RemoveFolder removes the folder from the list and drops its items map
// entry. Both changes land in the same document write.
func (d *NotesDocument) RemoveFolder(folderID string) bool {
	for i := range d.Folders {
		if d.Folders[i].ID == folderID {
			d.Folders = append(d.Folders[:i], d.Folders[i+1:]...)
			delete(d.ItemsMap, folderID)
			return true
		}
	}
	// A folder can have an orphaned-from-folders items entry only if the
	// document was edited out of band; clear it anyway.
	if _, ok := d.ItemsMap[folderID]; ok {
		delete(d.ItemsMap, folderID)
		return true
	}
	return false
}

// ListKV returns the key/value list for a folder. A folder with no entries
// yet yields an empty list; folder existence is not checked here.
func (d *NotesDocument) ListKV(folderID string) []KVItem {
	items, ok := d.ItemsMap[folderID]
	if !ok || items == nil {
		return []KVItem{}
	}
	return items
}

// UpsertKV replaces the value of an existing key in place, preserving its
// position, or appends a new item. The folder's entry is created lazily.
func (d *NotesDocument) UpsertKV(folderID, key, value string) {
	items := d.ItemsMap[folderID]
	for i := range items {
		if items[i].Key == key {
			items[i].Value = value
			d.ItemsMap[folderID] = items
			return
		}
	}
	d.ItemsMap[folderID] = append(items, KVItem{Key: key, Value: value})
}

// DeleteKV filters the key out of the folder's list. Absent keys are a no-op.
func (d *NotesDocument) DeleteKV(folderID, key string) bool {
	items, ok := d.ItemsMap[folderID]
	if !ok {
		return false
	}
	for i := range items {
		if items[i].Key == key {
			d.ItemsMap[folderID] = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}
