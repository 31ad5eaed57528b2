package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/shopclient/internal/client/storage"
)

var sessionKey = []byte("current")

// SaveSession stores the session snapshot
func (s *Storage) SaveSession(ctx context.Context, snap *storage.SessionSnapshot) error {
	if snap == nil {
		return fmt.Errorf("session snapshot is nil")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		// Сериализуем снапшот в JSON
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to marshal session snapshot: %w", err)
		}

		if err := bucket.Put(sessionKey, data); err != nil {
			return fmt.Errorf("failed to save session snapshot: %w", err)
		}

		return nil
	})
}

// GetSession retrieves the stored session snapshot
func (s *Storage) GetSession(ctx context.Context) (*storage.SessionSnapshot, error) {
	var snap *storage.SessionSnapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := bucket.Get(sessionKey)
		if data == nil {
			return storage.ErrSessionNotFound
		}

		// Десериализуем
		snap = &storage.SessionSnapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			return fmt.Errorf("failed to unmarshal session snapshot: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return snap, nil
}

// DeleteSession removes the stored session snapshot
func (s *Storage) DeleteSession(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		if err := bucket.Delete(sessionKey); err != nil {
			return fmt.Errorf("failed to delete session snapshot: %w", err)
		}

		return nil
	})
}
