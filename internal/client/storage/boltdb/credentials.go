package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/shopclient/internal/client/storage"
)

// credentialRecord представляет запись токена в хранилище
type credentialRecord struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"` // unix время истечения
}

// SaveCredential stores value with expiry after ttl
func (s *Storage) SaveCredential(ctx context.Context, name, value string, ttl time.Duration) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return fmt.Errorf("credentials bucket not found")
		}

		rec := credentialRecord{
			Value:     value,
			ExpiresAt: time.Now().Add(ttl).Unix(),
		}

		// Сериализуем запись в JSON
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal credential: %w", err)
		}

		if err := bucket.Put([]byte(name), data); err != nil {
			return fmt.Errorf("failed to save credential: %w", err)
		}

		return nil
	})
}

// GetCredential retrieves stored value.
// Истекшая запись эквивалентна отсутствующей: возвращается
// storage.ErrCredentialNotFound, никогда не ошибка.
func (s *Storage) GetCredential(ctx context.Context, name string) (string, error) {
	var value string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return fmt.Errorf("credentials bucket not found")
		}

		data := bucket.Get([]byte(name))
		if data == nil {
			return storage.ErrCredentialNotFound
		}

		var rec credentialRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal credential: %w", err)
		}

		// Проверяем срок действия
		if time.Now().Unix() >= rec.ExpiresAt {
			return storage.ErrCredentialNotFound
		}

		value = rec.Value
		return nil
	})

	if err != nil {
		return "", err
	}

	return value, nil
}

// DeleteCredential removes entry immediately.
// Удаление отсутствующей записи не является ошибкой — logout
// должен быть идемпотентным.
func (s *Storage) DeleteCredential(ctx context.Context, name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return fmt.Errorf("credentials bucket not found")
		}

		if err := bucket.Delete([]byte(name)); err != nil {
			return fmt.Errorf("failed to delete credential: %w", err)
		}

		return nil
	})
}
