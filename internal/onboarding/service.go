package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/barefootreset/backend/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=onboarding_test

type profileStore interface {
	Upsert(ctx context.Context, profile Profile) error
	Get(ctx context.Context, userID int) (*Profile, error)
}

// Service saves and fetches athlete profiles. Saves run behind a
// bounded retry with backoff so a transient storage hiccup does not
// lose the survey result.
type Service struct {
	store       profileStore
	retryPolicy pkg.RetryPolicy
	// injectable clock for deterministic tests
	NowFunc func() time.Time
}

func NewService(store profileStore, retryPolicy pkg.RetryPolicy) *Service {
	return &Service{
		store:       store,
		retryPolicy: retryPolicy,
		NowFunc:     time.Now,
	}
}

func (s *Service) Save(ctx context.Context, profile Profile) (*Profile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	profile.UpdatedAt = s.NowFunc()
	if err := pkg.Retry(ctx, s.retryPolicy, func(ctx context.Context) error {
		if err := s.store.Upsert(ctx, profile); err != nil {
			log.Errorf("save athlete profile for user %d: %s", profile.UserID, err)
			return err
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("save athlete profile: %w", err)
	}

	return &profile, nil
}

func (s *Service) Get(ctx context.Context, userID int) (*Profile, error) {
	return s.store.Get(ctx, userID)
}
