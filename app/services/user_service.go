package services

import (
	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/auth"
	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/rbac"
)

// UserAdminStore extends UserStore with the listing the admin panel needs.
type UserAdminStore interface {
	UserStore
	All(page, limit int) ([]models.User, repositories.Pagination, error)
}

// UserInput is the request body for creating a user account.
type UserInput struct {
	DisplayName string `json:"displayName" validate:"required|max:255"`
	Email       string `json:"email"       validate:"required|email"`
	Password    string `json:"password"    validate:"required|min:6"`
	Role        string `json:"role"        validate:"required"`
}

// UserService manages accounts. All operations are superadmin-only; the
// route layer enforces that, and role parsing here rejects anything
// outside the closed role set.
type UserService struct {
	users UserAdminStore
}

func NewUserService(users UserAdminStore) *UserService {
	return &UserService{users: users}
}

// List pages through accounts.
func (s *UserService) List(page, limit int) ([]models.User, repositories.Pagination, error) {
	return s.users.All(page, limit)
}

// Create registers a new account with a hashed password.
func (s *UserService) Create(input UserInput) (models.User, error) {
	role, err := rbac.ParseRole(input.Role)
	if err != nil {
		return models.User{}, &models.InvalidArgumentError{Field: "role", Reason: err.Error()}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Password:    hash,
		Role:        string(role),
		Active:      true,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}

	logger.Info("user: created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// SetRole changes an account's role.
func (s *UserService) SetRole(id uint, roleName string) (models.User, error) {
	role, err := rbac.ParseRole(roleName)
	if err != nil {
		return models.User{}, &models.InvalidArgumentError{Field: "role", Reason: err.Error()}
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return models.User{}, err
	}

	user.Role = string(role)
	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// SetActive enables or disables an account. Disabled accounts fail both
// login and the per-request role lookup.
func (s *UserService) SetActive(id uint, active bool) (models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return models.User{}, err
	}

	user.Active = active
	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}

	logger.Info("user: active changed", "user_id", id, "active", active)
	return user, nil
}
