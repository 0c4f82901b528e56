package seeders

import (
	"errors"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/auth"
	"github.com/duolink/cotizador/pkg/rbac"
)

func init() {
	Register("superadmin", SeedSuperadmin)
}

// SeedSuperadmin bootstraps the first superadmin account. Credentials
// come from SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD; the seeder is a
// no-op when the account already exists.
func SeedSuperadmin(db *gorm.DB) error {
	email := os.Getenv("SUPERADMIN_EMAIL")
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Print("(SUPERADMIN_EMAIL / SUPERADMIN_PASSWORD not set, skipped) ")
		return nil
	}
	if len(password) < 6 {
		return fmt.Errorf("superadmin password must be at least 6 characters")
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		fmt.Print("(already exists) ")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		DisplayName: "Superadmin",
		Email:       email,
		Password:    hash,
		Role:        string(rbac.RoleSuperadmin),
		Active:      true,
	}
	return db.Create(&user).Error
}
