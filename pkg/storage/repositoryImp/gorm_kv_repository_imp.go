package repositoryImp

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"micampo/entities"
	"micampo/pkg/storage/repository"
)

type gormKV struct{ db *gorm.DB }

// New returns a KVRepository over the state_entries table. The table must
// already be migrated (database.OpenSQLite does that).
func New(db *gorm.DB) repository.KVRepository { return &gormKV{db: db} }

func (r *gormKV) Get(key string) ([]byte, bool, error) {
	var row entities.StateEntry
	err := r.db.Where("state_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return row.Payload, true, nil
}

func (r *gormKV) Set(key string, value []byte) error {
	row := entities.StateEntry{Key: key, Payload: value, UpdatedAt: time.Now().UTC()}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *gormKV) Delete(key string) error {
	if err := r.db.Where("state_key = ?", key).Delete(&entities.StateEntry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *gormKV) Keys() ([]string, error) {
	var keys []string
	if err := r.db.Model(&entities.StateEntry{}).Order("state_key asc").Pluck("state_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	return keys, nil
}
