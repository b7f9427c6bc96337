package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and client ID
	GetByKey(ctx context.Context, key string, clientID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired idempotency keys
	DeleteExpired(ctx context.Context) (int64, error)
}
