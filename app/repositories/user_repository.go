package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, models.ErrNotFound
	}
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, &models.NotFoundError{Entity: "user", ID: id}
	}
	return user, err
}

// RoleByID returns the user's current role and active flag. This backs
// the auth middleware, which re-reads the role on every request instead
// of trusting a role baked into the token.
func (r *UserRepository) RoleByID(id uint) (string, bool, error) {
	var user models.User
	err := r.db.Select("role", "active").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, &models.NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return "", false, err
	}
	return user.Role, user.Active, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// All returns one page of users.
func (r *UserRepository) All(page, limit int) ([]models.User, Pagination, error) {
	var users []models.User
	pagination, err := paginate(r.db.Model(&models.User{}).Order("id asc"), page, limit, &users)
	return users, pagination, err
}

// CountActive counts enabled accounts.
func (r *UserRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
