package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/auth"
	"github.com/duolink/cotizador/pkg/rbac"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByEmail(email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (s *fakeUserStore) FindByID(id uint) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, &models.NotFoundError{Entity: "user", ID: id}
	}
	return *u, nil
}

func (s *fakeUserStore) Create(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uint(len(s.users) + 1)
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) Update(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return &models.NotFoundError{Entity: "user", ID: u.ID}
	}
	s.users[u.ID] = u
	return nil
}

func testUser(id uint, email, password, role string) *models.User {
	hash, _ := auth.HashPassword(password)
	u := &models.User{DisplayName: email, Email: email, Password: hash, Role: role, Active: true}
	u.ID = id
	return u
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore(testUser(1, "ana@duolink.pe", "secreto", "admin"))
	svc := NewAuthService(store)

	result, err := svc.Login("ana@duolink.pe", "secreto")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, uint(1), result.User.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	store := newFakeUserStore(testUser(1, "ana@duolink.pe", "secreto", "admin"))
	svc := NewAuthService(store)

	_, err := svc.Login("ana@duolink.pe", "wrong")
	assert.True(t, errors.Is(err, models.ErrPermissionDenied))

	_, err = svc.Login("nadie@duolink.pe", "secreto")
	assert.True(t, errors.Is(err, models.ErrPermissionDenied))
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	u := testUser(1, "ana@duolink.pe", "secreto", "admin")
	u.Active = false
	svc := NewAuthService(newFakeUserStore(u))

	_, err := svc.Login("ana@duolink.pe", "secreto")
	assert.True(t, errors.Is(err, models.ErrPermissionDenied))
}

func TestResetPasswordRequiresSuperadmin(t *testing.T) {
	target := testUser(2, "worker@duolink.pe", "oldpass", "worker")
	store := newFakeUserStore(testUser(1, "boss@duolink.pe", "bosspass", "superadmin"), target)
	svc := NewAuthService(store)

	for _, role := range []string{"worker", "admin", "", "root"} {
		err := svc.ResetPassword(1, role, 2, "newpass")
		assert.True(t, errors.Is(err, models.ErrPermissionDenied), "role %q", role)
	}

	err := svc.ResetPassword(1, string(rbac.RoleSuperadmin), 2, "newpass")
	require.NoError(t, err)

	updated, _ := store.FindByID(2)
	assert.True(t, auth.CheckPassword(updated.Password, "newpass"))
	assert.True(t, updated.RequiresPasswordChange)
	require.NotNil(t, updated.PasswordSetBy)
	assert.Equal(t, uint(1), *updated.PasswordSetBy)
	assert.NotNil(t, updated.PasswordSetAt)
}

func TestResetPasswordEnforcesMinimumLength(t *testing.T) {
	store := newFakeUserStore(testUser(2, "worker@duolink.pe", "oldpass", "worker"))
	svc := NewAuthService(store)

	err := svc.ResetPassword(1, string(rbac.RoleSuperadmin), 2, "ab1")
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	// Old password still works.
	updated, _ := store.FindByID(2)
	assert.True(t, auth.CheckPassword(updated.Password, "oldpass"))
}

func TestChangeOwnPassword(t *testing.T) {
	store := newFakeUserStore(testUser(1, "ana@duolink.pe", "secreto", "admin"))
	svc := NewAuthService(store)

	err := svc.ChangeOwnPassword(1, "wrong", "nuevopass")
	assert.True(t, errors.Is(err, models.ErrPermissionDenied))

	err = svc.ChangeOwnPassword(1, "secreto", "corto")
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))

	err = svc.ChangeOwnPassword(1, "secreto", "nuevopass")
	require.NoError(t, err)
	updated, _ := store.FindByID(1)
	assert.True(t, auth.CheckPassword(updated.Password, "nuevopass"))
	assert.False(t, updated.RequiresPasswordChange)
}
