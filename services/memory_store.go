package services

import (
	"context"
	"sync"

	"hupunachat/models"
)

// In-memory backends with the same Load/Save contract as the Mongo stores.
// Used for local development without a database and throughout the tests.

type MemoryNotesStore struct {
	mu   sync.Mutex
	docs map[string]*models.NotesDocument
}

func NewMemoryNotesStore() *MemoryNotesStore {
	return &MemoryNotesStore{docs: map[string]*models.NotesDocument{}}
}

func (s *MemoryNotesStore) Load(_ context.Context, roomID string) (*models.NotesDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[roomID]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (s *MemoryNotesStore) Save(_ context.Context, doc *models.NotesDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.RoomID] = doc.Clone()
	return nil
}

type MemoryTreeStore struct {
	mu   sync.Mutex
	docs map[string]*models.TreeDocument
}

func NewMemoryTreeStore() *MemoryTreeStore {
	return &MemoryTreeStore{docs: map[string]*models.TreeDocument{}}
}

func (s *MemoryTreeStore) Load(_ context.Context, roomID string) (*models.TreeDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[roomID]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (s *MemoryTreeStore) Save(_ context.Context, doc *models.TreeDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.RoomID] = doc.Clone()
	return nil
}

// SaveWithRevision is the compare-and-swap variant: the write goes through
// only if the stored revision (0 when the room has no document) is still
// prevRevision.
func (s *MemoryTreeStore) SaveWithRevision(_ context.Context, doc *models.TreeDocument, prevRevision int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stored int64
	if cur, ok := s.docs[doc.RoomID]; ok {
		stored = cur.Revision
	}
	if stored != prevRevision {
		return &ConflictError{}
	}
	s.docs[doc.RoomID] = doc.Clone()
	return nil
}
