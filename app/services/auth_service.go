package services

import (
	"time"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/auth"
	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/rbac"
)

// UserStore is the persistence surface for accounts.
type UserStore interface {
	FindByEmail(email string) (models.User, error)
	FindByID(id uint) (models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
}

// LoginResult carries the issued tokens and the signed-in user.
type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

// AuthService signs users in and performs the privileged password reset.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Login verifies the credentials and issues an access and a refresh
// token. Disabled accounts are rejected the same way as bad credentials.
func (s *AuthService) Login(email, password string) (LoginResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return LoginResult{}, models.ErrPermissionDenied
	}
	if !user.Active || !auth.CheckPassword(user.Password, password) {
		return LoginResult{}, models.ErrPermissionDenied
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	logger.Info("auth: login", "user_id", user.ID)
	return LoginResult{Token: token, RefreshToken: refresh, User: user}, nil
}

// Profile returns the account of the signed-in caller.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	return s.users.FindByID(userID)
}

// ResetPassword sets a new password on the target account. Only a
// superadmin may do this, the new password must be at least six
// characters, and the reset is recorded on the account so the user is
// forced to change it on next login.
func (s *AuthService) ResetPassword(callerID uint, callerRole string, targetID uint, newPassword string) error {
	if !rbac.IsAllowed(rbac.Role(callerRole), rbac.RoleSuperadmin) {
		return models.ErrPermissionDenied
	}
	if len(newPassword) < 6 {
		return &models.InvalidArgumentError{
			Field: "password", Reason: "must be at least 6 characters",
		}
	}

	user, err := s.users.FindByID(targetID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	user.Password = hash
	user.PasswordSetBy = &callerID
	user.PasswordSetAt = &now
	user.RequiresPasswordChange = true

	if err := s.users.Update(&user); err != nil {
		return err
	}

	logger.Info("auth: password reset", "target_id", targetID, "by", callerID)
	return nil
}

// ChangeOwnPassword lets a signed-in user rotate their own password
// after verifying the current one.
func (s *AuthService) ChangeOwnPassword(userID uint, current, newPassword string) error {
	if len(newPassword) < 6 {
		return &models.InvalidArgumentError{
			Field: "password", Reason: "must be at least 6 characters",
		}
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return models.ErrPermissionDenied
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	user.Password = hash
	user.PasswordSetBy = &userID
	user.PasswordSetAt = &now
	user.RequiresPasswordChange = false

	return s.users.Update(&user)
}
