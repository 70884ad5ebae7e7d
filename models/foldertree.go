package models

// FolderNode is one node of a room's nested folder hierarchy. Depth is not
// bounded and the server never validates the structural shape; the client is
// the source of truth for the tree on every replacement.
type FolderNode struct {
	ID       string       `bson:"id" json:"id"`
	Name     string       `bson:"name" json:"name"`
	Children []FolderNode `bson:"children" json:"children"`
}

// ReferencedItem points a tree folder at a message, carrying a short preview
// of its content. Deduplicated by message id within a folder.
type ReferencedItem struct {
	ID      string `bson:"id" json:"id"`
	Content string `bson:"content" json:"content"`
}

// TreeDocument is the per-room folder-tree overlay. Revision counts
// successful tree replacements and backs the optional optimistic
// concurrency check on updateTree.
type TreeDocument struct {
	RoomID   string                      `bson:"room_id" json:"roomId"`
	Folders  []FolderNode                `bson:"folders" json:"folders"`
	ItemsMap map[string][]ReferencedItem `bson:"items_map" json:"itemsMap"`
	Revision int64                       `bson:"revision" json:"revision"`
}

// NewTreeDocument returns the empty default document for a room.
func NewTreeDocument(roomID string) *TreeDocument {
	return &TreeDocument{
		RoomID:   roomID,
		Folders:  []FolderNode{},
		ItemsMap: map[string][]ReferencedItem{},
	}
}

// Normalize backfills collections that decoded as nil.
func (d *TreeDocument) Normalize() {
	if d.Folders == nil {
		d.Folders = []FolderNode{}
	}
	if d.ItemsMap == nil {
		d.ItemsMap = map[string][]ReferencedItem{}
	}
}

// Clone returns a deep copy of the document, including every tree node.
func (d *TreeDocument) Clone() *TreeDocument {
	out := &TreeDocument{
		RoomID:   d.RoomID,
		Folders:  cloneNodes(d.Folders),
		ItemsMap: make(map[string][]ReferencedItem, len(d.ItemsMap)),
		Revision: d.Revision,
	}
	for folderID, items := range d.ItemsMap {
		out.ItemsMap[folderID] = append([]ReferencedItem{}, items...)
	}
	return out
}

func cloneNodes(nodes []FolderNode) []FolderNode {
	if nodes == nil {
		return []FolderNode{}
	}
	out := make([]FolderNode, len(nodes))
	for i, n := range nodes {
		out[i] = FolderNode{ID: n.ID, Name: n.Name, Children: cloneNodes(n.Children)}
	}
	return out
}

// SaveItem appends a referenced message to a folder's item list unless the
// message id is already present. Returns false on the duplicate no-op, which
// is what makes retrying a save after a network failure always safe.
func (d *TreeDocument) SaveItem(folderID, messageID, content string) bool {
	items := d.ItemsMap[folderID]
	for i := range items {
		if items[i].ID == messageID {
			return false
		}
	}
	d.ItemsMap[folderID] = append(items, ReferencedItem{ID: messageID, Content: content})
	return true
}

// RemoveItem filters a referenced message out of a folder's item list.
// Absent ids are a no-op and leave the document untouched.
func (d *TreeDocument) RemoveItem(folderID, messageID string) bool {
	items, ok := d.ItemsMap[folderID]
	if !ok {
		return false
	}
	for i := range items {
		if items[i].ID == messageID {
			d.ItemsMap[folderID] = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceTree swaps the whole folders field for the supplied tree, verbatim.
// No cycle or duplicate-id validation happens server side; a concurrent
// replacement from another client is last-writer-wins at whole-tree
// granularity unless the caller opts into the revision check.
func (d *TreeDocument) ReplaceTree(folders []FolderNode) {
	if folders == nil {
		folders = []FolderNode{}
	}
	d.Folders = folders
	d.Revision++
}
