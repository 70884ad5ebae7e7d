package services

import (
	"context"
	"strings"

	"hupunachat/models"
	"hupunachat/utils"
)

// NotesBackend is the storage contract for the per-room notes overlay.
// Load returns nil (not an error) for a room with no document.
type NotesBackend interface {
	Load(ctx context.Context, roomID string) (*models.NotesDocument, error)
	Save(ctx context.Context, doc *models.NotesDocument) error
}

// NoteService implements the notes overlay operations: flat per-room folders
// and flat per-folder key/value notes. Every mutating operation lazily
// creates the room's document, so first use needs no provisioning call.
type NoteService struct {
	store NotesBackend
}

func NewNoteService(store NotesBackend) *NoteService {
	return &NoteService{store: store}
}

// load returns the stored document or the empty default; absence is a valid
// empty state, never a not-found error.
func (s *NoteService) load(ctx context.Context, roomID string) (*models.NotesDocument, error) {
	doc, err := s.store.Load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = models.NewNotesDocument(roomID)
	}
	return doc, nil
}

func (s *NoteService) Read(ctx context.Context, roomID string) (*models.NotesDocument, error) {
	if err := requireFields(requiredField{"roomId", roomID}); err != nil {
		return nil, err
	}
	return s.load(ctx, roomID)
}

// CreateFolder appends a freshly-identified folder and returns it.
func (s *NoteService) CreateFolder(ctx context.Context, roomID, name string) (*models.NoteFolder, error) {
	name = strings.TrimSpace(name)
	if err := requireFields(requiredField{"roomId", roomID}, requiredField{"name", name}); err != nil {
		return nil, err
	}
	if err := utils.ValidateFolderName(name); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}

	folder := models.NoteFolder{ID: utils.NewFolderID(), Name: name}
	doc.AddFolder(folder)
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	return &folder, nil
}

// RenameFolder replaces a folder's name in place. An unknown folder id is a
// successful no-op.
func (s *NoteService) RenameFolder(ctx context.Context, roomID, folderID, name string) error {
	name = strings.TrimSpace(name)
	if err := requireFields(
		requiredField{"roomId", roomID},
		requiredField{"folderId", folderID},
		requiredField{"name", name},
	); err != nil {
		return err
	}
	if err := utils.ValidateFolderName(name); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	if !doc.RenameFolder(folderID, name) {
		return nil
	}
	return s.store.Save(ctx, doc)
}

// DeleteFolder removes the folder and its items map entry in one document
// write. An unknown folder id is a successful no-op.
func (s *NoteService) DeleteFolder(ctx context.Context, roomID, folderID string) error {
	if err := requireFields(
		requiredField{"roomId", roomID},
		requiredField{"folderId", folderID},
	); err != nil {
		return err
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	if !doc.RemoveFolder(folderID) {
		return nil
	}
	return s.store.Save(ctx, doc)
}

// ListKV returns the folder's key/value list. A folder with no entries yet
// (or no folder at all) yields an empty list; existence is not validated.
func (s *NoteService) ListKV(ctx context.Context, roomID, folderID string) ([]models.KVItem, error) {
	if err := requireFields(
		requiredField{"roomId", roomID},
		requiredField{"folderId", folderID},
	); err != nil {
		return nil, err
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return doc.ListKV(folderID), nil
}

// UpsertKV replaces an existing key's value in place or appends a new item.
// An empty value is permitted; an empty key is not.
func (s *NoteService) UpsertKV(ctx context.Context, roomID, folderID, key, value string) error {
	if err := requireFields(
		requiredField{"roomId", roomID},
		requiredField{"folderId", folderID},
		requiredField{"key", key},
	); err != nil {
		return err
	}
	if err := utils.ValidateNoteKey(key); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	doc.UpsertKV(folderID, key, value)
	return s.store.Save(ctx, doc)
}

// DeleteKV filters the key out of the folder's list; absent keys are a
// successful no-op.
func (s *NoteService) DeleteKV(ctx context.Context, roomID, folderID, key string) error {
	if err := requireFields(
		requiredField{"roomId", roomID},
		requiredField{"folderId", folderID},
		requiredField{"key", key},
	); err != nil {
		return err
	}
	if err := utils.ValidateNoteKey(key); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	doc, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	if !doc.DeleteKV(folderID, key) {
		return nil
	}
	return s.store.Save(ctx, doc)
}
