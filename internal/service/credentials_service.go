package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/writer-dashboard/internal/cache"
	"github.com/maheshrc27/writer-dashboard/internal/models"
	"github.com/maheshrc27/writer-dashboard/internal/repository"
)

const trelloCredentialsCacheKey = "trello:credentials"

type CredentialsService interface {
	TrelloCredentials(ctx context.Context) (*models.TrelloCredentials, error)
	// Invalidate drops the cached credentials so the next read hits the database.
	Invalidate(ctx context.Context) error
}

type credentialsService struct {
	sr    repository.SettingsRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCredentialsService(sr repository.SettingsRepository, c cache.Cache, ttl time.Duration) CredentialsService {
	return &credentialsService{
		sr:    sr,
		cache: c,
		ttl:   ttl,
	}
}

func (s *credentialsService) TrelloCredentials(ctx context.Context) (*models.TrelloCredentials, error) {
	var cached models.TrelloCredentials
	ok, err := s.cache.Get(ctx, trelloCredentialsCacheKey, &cached)
	if err != nil {
		slog.Warn("credentials cache read failed", "error", err)
	}
	if ok && cached.APIKey != "" && cached.Token != "" {
		return &cached, nil
	}

	creds, found, err := s.sr.GetTrelloCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsUnavailable, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: API credentials not found in the database", ErrCredentialsUnavailable)
	}
	if creds.APIKey == "" || creds.Token == "" {
		return nil, fmt.Errorf("%w: API key or token is missing", ErrCredentialsUnavailable)
	}

	if err := s.cache.Set(ctx, trelloCredentialsCacheKey, creds, s.ttl); err != nil {
		slog.Warn("credentials cache write failed", "error", err)
	}

	return creds, nil
}

func (s *credentialsService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, trelloCredentialsCacheKey)
}
