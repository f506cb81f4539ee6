package config

import (
	"fmt"
	"log"
	"os"

	"blog-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_NAME", "blog_db"),
		getenv("DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	return db
}

// Migrate registers the explicit join models before AutoMigrate so the
// favorite and follow edges get composite primary keys instead of the
// default surrogate join tables. Shared with the test suites.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Article{}, "FavoritedBy", &models.ArticleFavorite{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.User{}, "Following", &models.UserFollow{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Article{},
		&models.Comment{},
		&models.Notification{},
	)
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
