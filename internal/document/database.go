package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "documents"

// ErrNotFound is returned when no document has the requested ID.
var ErrNotFound = errors.New("document not found")

// DB defines the interface for database operations
type DB interface {
	// SaveDocument inserts or replaces a document
	SaveDocument(doc *SavedDocument) error

	// GetDocument retrieves a document by ID
	GetDocument(id string) (*SavedDocument, error)

	// ListDocuments returns all documents, newest first
	ListDocuments() ([]*SavedDocument, error)

	// DeleteDocument removes a document from the database
	DeleteDocument(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveDocument stores doc under its ID. The last write wins.
func (b *BoltDB) SaveDocument(doc *SavedDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(doc.ID), data)
	})
}

// GetDocument retrieves a document by ID
func (b *BoltDB) GetDocument(id string) (*SavedDocument, error) {
	var doc SavedDocument
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("unmarshaling document: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest first
func (b *BoltDB) ListDocuments() ([]*SavedDocument, error) {
	docs := make([]*SavedDocument, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			var doc SavedDocument
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("unmarshaling document %s: %w", k, err)
			}
			docs = append(docs, &doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// DeleteDocument removes a document. Deleting a missing ID is not an error.
func (b *BoltDB) DeleteDocument(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
