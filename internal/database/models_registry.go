package database

import "rethinkclub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Story{},
		&models.Comment{},
		&models.Like{},
		&models.Interaction{},
	}
}
