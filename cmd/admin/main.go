// Package main provides admin management utilities.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"bizsite/internal/config"
	"bizsite/internal/database"
	"bizsite/internal/models"

	"gorm.io/gorm"
)

// main promotes or demotes users, or lists the current admins.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id|email>   - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id|email>    - Demote admin to user")
		fmt.Println("  go run ./cmd/admin list-admins               - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	switch command := os.Args[1]; command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: go run ./cmd/admin %s <user_id|email>\n", command)
			os.Exit(1)
		}
		role := models.RoleAdmin
		if command == "demote" {
			role = models.RoleUser
		}
		if err := setRole(db, os.Args[2], role); err != nil {
			log.Fatal(err)
		}
	case "list-admins":
		listAdmins(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func findUser(db *gorm.DB, ref string) (*models.User, error) {
	var user models.User
	var err error
	if id, convErr := parseID(ref); convErr == nil {
		err = db.First(&user, id).Error
	} else {
		err = db.Where("email = ?", ref).First(&user).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s not found", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func parseID(ref string) (uint, error) {
	id, err := strconv.ParseUint(ref, 10, 64)
	return uint(id), err
}

func setRole(db *gorm.DB, ref string, role models.Role) error {
	user, err := findUser(db, ref)
	if err != nil {
		return err
	}
	if user.Role == role {
		fmt.Printf("%s (ID: %d) already has role %s\n", user.Email, user.ID, role)
		return nil
	}
	if role == models.RoleUser {
		var admins int64
		if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if admins <= 1 {
			return fmt.Errorf("refusing to demote the last admin")
		}
	}
	if err := db.Model(user).Update("role", role).Error; err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	fmt.Printf("Set role of %s (ID: %d) to %s\n", user.Email, user.ID, role)
	return nil
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("role = ?", models.RoleAdmin).Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}

	fmt.Println("Current admins:")
	for _, admin := range admins {
		username := "-"
		if admin.Username != nil {
			username = *admin.Username
		}
		fmt.Printf("ID: %d | Username: %s | Email: %s | Active: %t\n", admin.ID, username, admin.Email, admin.IsActive)
	}
}
