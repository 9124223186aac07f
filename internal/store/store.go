// Package store persists extracted statement records so the API can serve
// them after the extraction run that produced them has finished.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/peepalytics/statement-extractor/internal/models"
)

const bucketName = "statements"

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = fmt.Errorf("statement not found")

// DB defines the operations the API and pipeline need from the record
// store.
type DB interface {
	// SaveStatement persists a record, assigning an ID when it has none.
	SaveStatement(rec *models.StatementRecord) error

	// GetStatement retrieves a record by ID.
	GetStatement(id string) (*models.StatementRecord, error)

	// ListStatements returns all persisted records.
	ListStatements() ([]*models.StatementRecord, error)

	// Close closes the underlying database.
	Close() error
}

// BoltDB implements DB on a bolt file.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens (or creates) the bolt database at path.
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
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

func (b *BoltDB) SaveStatement(rec *models.StatementRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling statement: %w", err)
		}
		return bucket.Put([]byte(rec.ID), data)
	})
}

func (b *BoltDB) GetStatement(id string) (*models.StatementRecord, error) {
	var rec *models.StatementRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		rec = &models.StatementRecord{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (b *BoltDB) ListStatements() ([]*models.StatementRecord, error) {
	var recs []*models.StatementRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(_, data []byte) error {
			rec := &models.StatementRecord{}
			if err := json.Unmarshal(data, rec); err != nil {
				return fmt.Errorf("unmarshaling statement: %w", err)
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (b *BoltDB) Close() error {
	return b.db.Close()
}
