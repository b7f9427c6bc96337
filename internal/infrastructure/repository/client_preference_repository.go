package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/domain/entity"
	domainRepo "github.com/sangkips/printledger/internal/domain/repository"
	"gorm.io/gorm"
)

type clientPreferenceRepository struct {
	db *gorm.DB
}

// NewClientPreferenceRepository creates a new client preference repository
func NewClientPreferenceRepository(db *gorm.DB) domainRepo.ClientPreferenceRepository {
	return &clientPreferenceRepository{db: db}
}

// GetByClientID retrieves preferences by client ID
func (r *clientPreferenceRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*entity.ClientPreference, error) {
	var pref entity.ClientPreference
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

// Create creates a new preference row
func (r *clientPreferenceRepository) Create(ctx context.Context, pref *entity.ClientPreference) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

// Update updates an existing preference row
func (r *clientPreferenceRepository) Update(ctx context.Context, pref *entity.ClientPreference) error {
	return r.db.WithContext(ctx).Save(pref).Error
}
