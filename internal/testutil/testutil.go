// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"bizsite/internal/database"
	"bizsite/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Password is the plain-text password of users created by CreateUser.
const Password = "correct-horse-battery"

// CreateUser inserts an onboarded local user with role.
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	name := username
	u := &models.User{
		Username:     &name,
		Email:        fmt.Sprintf("%s@example.com", username),
		FullName:     username,
		Provider:     models.ProviderLocal,
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
		LocalAuth:    true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
