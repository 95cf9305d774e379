package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/cache"
	"jobboard/internal/model"
	"jobboard/internal/repository"
)

// UserService exposes read access to accounts.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewUserService builds a UserService with repository and cache. Users are
// never updated, so cached entries only expire by ttl.
func NewUserService(repo repository.UserRepository, cache *cache.Client, ttl time.Duration) UserService {
	return &userService{repo: repo, cache: cache, ttl: ttl}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return cache.UserPrefix + id.String()
}

// GetUser returns the user or the repository's not-found error. The cached
// copy never carries the password hash.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, s.ttl)
	}
	return user, nil
}
