package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/domain/entity"
)

// ClientPreferenceRepository defines the interface for per-client preference storage
type ClientPreferenceRepository interface {
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*entity.ClientPreference, error)
	Create(ctx context.Context, pref *entity.ClientPreference) error
	Update(ctx context.Context, pref *entity.ClientPreference) error
}
