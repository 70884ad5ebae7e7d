package services

import (
	"context"
	"fmt"

	"hupunachat/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Shared room-scoped document access helpers. Both overlay collections hold
// exactly one document per room, written back whole after each mutation
// (read-modify-write; single-document updates are atomic, cross-document
// transactions are not attempted).

func roomFilter(roomID string) bson.M {
	return bson.M{"room_id": roomID}
}

func replaceUpsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

func ensureRoomIndex(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "room_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create room_id index on %s: %w", collection.Name(), err)
	}
	return nil
}

// MongoNotesStore persists per-room notes documents in the "room_notes"
// collection.
type MongoNotesStore struct {
	collection *mongo.Collection
}

func NewMongoNotesStore(db *mongo.Database) *MongoNotesStore {
	return &MongoNotesStore{collection: db.Collection("room_notes")}
}

func (s *MongoNotesStore) EnsureIndexes(ctx context.Context) error {
	return ensureRoomIndex(ctx, s.collection)
}

// Load returns the room's document, or nil when the room has none yet.
func (s *MongoNotesStore) Load(ctx context.Context, roomID string) (*models.NotesDocument, error) {
	var doc models.NotesDocument
	err := s.collection.FindOne(ctx, roomFilter(roomID)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load notes document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save writes the whole document back, creating it when the room had none.
func (s *MongoNotesStore) Save(ctx context.Context, doc *models.NotesDocument) error {
	_, err := s.collection.ReplaceOne(ctx, roomFilter(doc.RoomID), doc, replaceUpsert())
	if err != nil {
		return fmt.Errorf("failed to save notes document: %w", err)
	}
	return nil
}

// MongoTreeStore persists per-room folder-tree documents in the
// "room_folder_trees" collection.
type MongoTreeStore struct {
	collection *mongo.Collection
}

func NewMongoTreeStore(db *mongo.Database) *MongoTreeStore {
	return &MongoTreeStore{collection: db.Collection("room_folder_trees")}
}

func (s *MongoTreeStore) EnsureIndexes(ctx context.Context) error {
	return ensureRoomIndex(ctx, s.collection)
}

func (s *MongoTreeStore) Load(ctx context.Context, roomID string) (*models.TreeDocument, error) {
	var doc models.TreeDocument
	err := s.collection.FindOne(ctx, roomFilter(roomID)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load tree document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (s *MongoTreeStore) Save(ctx context.Context, doc *models.TreeDocument) error {
	_, err := s.collection.ReplaceOne(ctx, roomFilter(doc.RoomID), doc, replaceUpsert())
	if err != nil {
		return fmt.Errorf("failed to save tree document: %w", err)
	}
	return nil
}

// SaveWithRevision replaces the document only when its stored revision is
// still prevRevision. The filter makes the upsert path insert when the
// revision no longer matches, which the unique room_id index rejects, so a
// concurrent writer surfaces as either zero matches or a duplicate key.
func (s *MongoTreeStore) SaveWithRevision(ctx context.Context, doc *models.TreeDocument, prevRevision int64) error {
	filter := roomFilter(doc.RoomID)
	filter["revision"] = prevRevision
	res, err := s.collection.ReplaceOne(ctx, filter, doc, replaceUpsert())
	if mongo.IsDuplicateKeyError(err) {
		return &ConflictError{}
	} else if err != nil {
		return fmt.Errorf("failed to save tree document: %w", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return &ConflictError{}
	}
	return nil
}
