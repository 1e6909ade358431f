package repository

import (
	"bizsite/internal/models"

	"gorm.io/gorm"
)

type ContactRepository = Store[models.Contact]

func NewContactRepository(db *gorm.DB) ContactRepository {
	return newCrudStore[models.Contact](db, "Contact", "created_at DESC")
}
