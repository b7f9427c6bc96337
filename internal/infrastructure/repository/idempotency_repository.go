package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/domain/entity"
	domainRepo "github.com/sangkips/printledger/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, clientID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND client_id = ?", key, clientID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

// Create stores the key, replacing an expired row for the same client and key.
func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ? AND client_id = ? AND expires_at < ?", ikey.Key, ikey.ClientID, time.Now()).
			Delete(&entity.IdempotencyKey{}).Error; err != nil {
			return err
		}
		return tx.Create(ikey).Error
	})
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&entity.IdempotencyKey{})
	return res.RowsAffected, res.Error
}
