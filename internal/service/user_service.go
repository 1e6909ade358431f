package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bizsite/internal/models"
	"bizsite/internal/repository"
	"bizsite/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService is the admin view of user accounts.
type UserService struct {
	userRepo repository.UserRepository
	setup    *SetupService
}

type ListUsersInput struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Search   string `query:"search"`
	Role     string `query:"role"`
	Provider string `query:"provider"`
	Active   string `query:"active"`
}

type CreateUserInput struct {
	Email    string  `json:"email"`
	Username *string `json:"username"`
	FullName string  `json:"fullName"`
	Phone    string  `json:"phone"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
}

type UpdateUserInput struct {
	Username  *string `json:"username"`
	FullName  *string `json:"fullName"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
	// Password resets the password and enables password login.
	Password *string `json:"password"`
}

// NewUserService returns a UserService. setup may be nil; when set, its
// admin memo is dropped whenever a role or active flag changes.
func NewUserService(userRepo repository.UserRepository, setup *SetupService) *UserService {
	return &UserService{userRepo: userRepo, setup: setup}
}

func (s *UserService) List(ctx context.Context, in ListUsersInput) (models.Page[models.User], error) {
	f := repository.Filters{}.SearchIf(in.Search, "email", "username", "full_name")
	if in.Role != "" {
		role := models.Role(strings.ToLower(in.Role))
		if !role.Valid() {
			return models.Page[models.User]{}, models.NewValidationError("role must be admin or user")
		}
		f = append(f, repository.Eq("role", role))
	}
	if in.Provider != "" {
		provider := models.Provider(strings.ToLower(in.Provider))
		if !provider.Valid() {
			return models.Page[models.User]{}, models.NewValidationError("provider must be local, github or google")
		}
		f = append(f, repository.Eq("provider", provider))
	}
	if in.Active != "" {
		active, err := strconv.ParseBool(in.Active)
		if err != nil {
			return models.Page[models.User]{}, models.NewValidationError("active must be true or false")
		}
		f = append(f, repository.Eq("is_active", active))
	}

	page := models.PageRequest{Page: in.Page, Limit: in.Limit}.Normalize()
	items, total, err := s.userRepo.List(ctx, repository.ListQuery{Filters: f, Page: page})
	if err != nil {
		return models.Page[models.User]{}, err
	}
	return models.NewPage(items, total, page), nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	role := models.RoleUser
	if in.Role != "" {
		role = models.Role(strings.ToLower(in.Role))
	}
	u, err := createLocalUser(ctx, s.userRepo, localUserInput{
		Email:    in.Email,
		Username: in.Username,
		FullName: in.FullName,
		Phone:    in.Phone,
		Password: in.Password,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}
	s.adminsChanged(role == models.RoleAdmin)
	return u, nil
}

// Update applies a partial update made by actorID. Admins cannot demote or
// deactivate themselves.
func (s *UserService) Update(ctx context.Context, actorID, id uint, in UpdateUserInput) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasAdmin := u.IsAdmin()

	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			u.Username = nil
		} else {
			if err := validation.ValidateUsername(name); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
			if err := ensureUsernameFree(ctx, s.userRepo, name, u.ID); err != nil {
				return nil, err
			}
			u.Username = &name
		}
	}
	if err := setText(&u.FullName, "fullName", in.FullName, 120); err != nil {
		return nil, err
	}
	if err := setText(&u.Phone, "phone", in.Phone, 40); err != nil {
		return nil, err
	}
	if err := setURL(&u.AvatarURL, "avatarUrl", in.AvatarURL); err != nil {
		return nil, err
	}
	if in.Role != nil {
		role := models.Role(strings.ToLower(strings.TrimSpace(*in.Role)))
		if !role.Valid() {
			return nil, models.NewValidationError("role must be admin or user")
		}
		if actorID == u.ID && role != models.RoleAdmin {
			return nil, models.NewForbiddenError("You cannot remove your own admin role")
		}
		u.Role = role
	}
	if in.IsActive != nil {
		if actorID == u.ID && !*in.IsActive {
			return nil, models.NewForbiddenError("You cannot deactivate your own account")
		}
		u.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), hashCost)
		if err != nil {
			return nil, models.NewInternalError(fmt.Errorf("hash password: %w", err))
		}
		u.PasswordHash = string(hash)
		u.LocalAuth = true
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.adminsChanged(wasAdmin != u.IsAdmin())
	return u, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return models.NewForbiddenError("You cannot delete your own account")
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.adminsChanged(u.IsAdmin())
	return nil
}

func (s *UserService) adminsChanged(changed bool) {
	if changed && s.setup != nil {
		s.setup.Invalidate()
	}
}
