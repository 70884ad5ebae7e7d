package services

import (
	"context"

	"hupunachat/models"
)

// TreeBackend is the storage contract for the per-room folder-tree overlay.
// SaveWithRevision persists the document only if the stored revision still
// equals prevRevision (0 for a room with no document yet) and returns
// ConflictError otherwise, so the revision check holds across concurrent
// writers rather than only against the copy read in the same request.
type TreeBackend interface {
	Load(ctx context.Context, roomID string) (*models.TreeDocument, error)
	Save(ctx context.Context, doc *models.TreeDocument) error
	SaveWithRevision(ctx context.Context, doc *models.TreeDocument, prevRevision int64) error
}

// TreeService implements the nested folder hierarchy plus per-folder message
// references. The tree itself is replaced whole on every structural change;
// the server never merges partial edits.
type TreeService struct {
	store TreeBackend
}

func NewTreeService(store TreeBackend) *TreeService {
	return &TreeService{store: store}
}

func (s *TreeService) load(ctx context.Context, roomID string) (*models.TreeDocument, error) {
	doc, err := s.store.Load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = models.NewTreeDocument(roomID)
	}
	return doc, nil
}

func (s *TreeService) Read(ctx context.Context, roomID string) (*models.TreeDocument, error) {
	if err := requireFields(requiredField{"roomId", roomID}); err != nil {
		return nil, err
	}
	return s.load(ctx, roomID)
}

// SaveItem references a message from a tree folder. Saving a message id that
// is already referenced by the folder is a no-op, which makes the operation
// idempotent under retry.
func (s *TreeService) SaveItem(ctx context.Context, roomID, folderID, messageID, preview string) error {
	if err := requireFields(
		requiredField{"roomId", roomID},
		requiredField{"folderId", folderID},
		requiredField{"messageId", messageID},
	); err != nil {
		return err
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	if !doc.SaveItem(folderID, messageID, preview) {
		return nil
	}
	return s.store.Save(ctx, doc)
}

// RemoveItem drops a message reference from a folder; absent ids are a
// successful no-op that leaves the document untouched.
func (s *TreeService) RemoveItem(ctx context.Context, roomID, folderID, messageID string) error {
	if err := requireFields(
		requiredField{"roomId", roomID},
		requiredField{"folderId", folderID},
		requiredField{"messageId", messageID},
	); err != nil {
		return err
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	if !doc.RemoveItem(folderID, messageID) {
		return nil
	}
	return s.store.Save(ctx, doc)
}

// UpdateTree replaces the room's whole folder tree with the supplied one,
// verbatim; well-formedness (cycles, duplicate ids) is the caller's
// responsibility. Plain calls are last-writer-wins across the entire tree —
// unlike the slot-scoped item operations, a lost update here discards a
// peer's whole structural edit. Callers that send the revision they read get
// the optimistic check instead: the write is conditional on the stored
// revision still matching, so two writers racing from the same snapshot
// cannot both succeed; on mismatch the replacement is rejected with
// ConflictError. Returns the new revision.
func (s *TreeService) UpdateTree(ctx context.Context, roomID string, folders []models.FolderNode, expectedRevision *int64) (int64, error) {
	if err := requireFields(requiredField{"roomId", roomID}); err != nil {
		return 0, err
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return 0, err
	}
	if expectedRevision != nil && *expectedRevision != doc.Revision {
		return 0, &ConflictError{}
	}
	doc.ReplaceTree(folders)
	if expectedRevision != nil {
		if err := s.store.SaveWithRevision(ctx, doc, *expectedRevision); err != nil {
			return 0, err
		}
		return doc.Revision, nil
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return 0, err
	}
	return doc.Revision, nil
}
