package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/sangkips/printledger/internal/domain/repository"
)

// DateStore remembers the last date entered on one client.
type DateStore interface {
	LastDate(ctx context.Context) (string, error)
	SaveDate(ctx context.Context, date string) error
}

// PreferenceService handles per-client preferences
type PreferenceService struct {
	prefRepo repository.ClientPreferenceRepository
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(prefRepo repository.ClientPreferenceRepository) *PreferenceService {
	return &PreferenceService{
		prefRepo: prefRepo,
	}
}

// GetLastDate returns the stored date for a client, or "" if none was saved.
func (s *PreferenceService) GetLastDate(ctx context.Context, clientID uuid.UUID) (string, error) {
	pref, err := s.prefRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return "", err
	}
	if pref == nil {
		return "", nil
	}
	return pref.LastDate, nil
}

// SetLastDate stores the date for a client, creating the row on first use.
func (s *PreferenceService) SetLastDate(ctx context.Context, clientID uuid.UUID, date string) error {
	pref, err := s.prefRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return err
	}

	if pref == nil {
		return s.prefRepo.Create(ctx, &entity.ClientPreference{
			ClientID: clientID,
			LastDate: date,
		})
	}

	pref.LastDate = date
	return s.prefRepo.Update(ctx, pref)
}

// ForClient binds the service to one client as a DateStore.
func (s *PreferenceService) ForClient(clientID uuid.UUID) DateStore {
	return &clientDateStore{svc: s, clientID: clientID}
}

type clientDateStore struct {
	svc      *PreferenceService
	clientID uuid.UUID
}

func (d *clientDateStore) LastDate(ctx context.Context) (string, error) {
	return d.svc.GetLastDate(ctx, d.clientID)
}

func (d *clientDateStore) SaveDate(ctx context.Context, date string) error {
	return d.svc.SetLastDate(ctx, d.clientID, date)
}
