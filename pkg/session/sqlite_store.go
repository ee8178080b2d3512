package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLiteStore persists the session in a local SQLite file.
type SQLiteStore struct {
	client *db.Client
}

func NewSQLiteStore(client *db.Client) (*SQLiteStore, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &SQLiteStore{client: client}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.SessionEntry
	err := s.client.DB().WithContext(ctx).Where("name = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *SQLiteStore) SetAll(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	entries := make([]models.SessionEntry, 0, len(values))
	for k, v := range values {
		entries = append(entries, models.SessionEntry{Key: k, Value: v})
	}
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entries).Error
	})
}

func (s *SQLiteStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.DB().WithContext(ctx).Where("name IN ?", keys).Delete(&models.SessionEntry{}).Error
}

func (s *SQLiteStore) Close() error {
	return s.client.Close()
}
