package service

import (
	"context"
	"sync"

	"bizsite/internal/cache"
	"bizsite/internal/models"
	"bizsite/internal/repository"
)

// SetupService tracks whether the site still needs its first administrator.
type SetupService struct {
	users  repository.UserRepository
	needed *cache.Memo[bool]

	// mu serializes the admin check with the insert in CreateFirstAdmin.
	mu sync.Mutex
}

type SetupStatus struct {
	NeedsSetup bool `json:"needsSetup"`
}

type SetupInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

func NewSetupService(users repository.UserRepository) *SetupService {
	s := &SetupService{users: users}
	s.needed = cache.NewMemo(func(ctx context.Context) (bool, error) {
		n, err := users.CountAdmins(ctx)
		return n == 0, err
	})
	return s
}

func (s *SetupService) Status(ctx context.Context) (SetupStatus, error) {
	needed, err := s.needed.Get(ctx)
	return SetupStatus{NeedsSetup: needed}, err
}

// CreateFirstAdmin registers an onboarded admin account. It fails with a
// forbidden error once any active admin exists.
func (s *SetupService) CreateFirstAdmin(ctx context.Context, in SetupInput) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The memo may be stale if an admin was promoted out of band.
	s.needed.Invalidate()
	needed, err := s.needed.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !needed {
		return nil, models.NewForbiddenError("Setup has already been completed")
	}

	u, err := createLocalUser(ctx, s.users, localUserInput{
		Email:    in.Email,
		Username: &in.Username,
		FullName: in.FullName,
		Password: in.Password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	s.needed.Invalidate()
	return u, nil
}

// Invalidate forces the next Status call to recount admins.
func (s *SetupService) Invalidate() {
	s.needed.Invalidate()
}
