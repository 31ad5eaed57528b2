package boltdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var clientIDKey = []byte("client_id")

// GetClientID возвращает устойчивый ID этого устройства/клиента.
// Генерируется один раз при первом обращении и сохраняется в metadata bucket.
func (s *Storage) GetClientID(ctx context.Context) (string, error) {
	var clientID string

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if data := bucket.Get(clientIDKey); data != nil {
			clientID = string(data)
			return nil
		}

		// Первый запуск на этом устройстве — генерируем новый ID
		clientID = uuid.New().String()
		if err := bucket.Put(clientIDKey, []byte(clientID)); err != nil {
			return fmt.Errorf("failed to save client id: %w", err)
		}

		return nil
	})

	if err != nil {
		return "", err
	}

	return clientID, nil
}
