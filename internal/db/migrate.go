package db

import (
	"errors" // Error inspection

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Seed brands and categories offered in the admin panel
var (
	defaultBrands     = []string{"Adidas", "Asics", "Jordan", "New Balance", "Nike", "Puma", "Reebok", "Vans"}
	defaultCategories = []string{"Basketball", "Lifestyle", "Running", "Skate", "Training"}
)

// AutoMigrate creates or updates every table of the application
func AutoMigrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(
		&domain.User{},          // Accounts
		&domain.Brand{},         // Brand lookup
		&domain.Category{},      // Category lookup
		&domain.Shoe{},          // Catalog
		&domain.WishlistEntry{}, // Likes
		&domain.Reminder{},      // Drop reminders
	)
}

// Seed inserts the default brands and categories when missing
func Seed(db *gorm.DB) error {
	for _, name := range defaultBrands {
		b := domain.Brand{Name: name}
		if err := db.Where(domain.Brand{Name: name}).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}
	for _, name := range defaultCategories {
		c := domain.Category{Name: name}
		if err := db.Where(domain.Category{Name: name}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

// Migrate performs automatic migration and seeding for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	if err := Seed(db); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		logrus.Fatalf("seeding failed: %v", err) // Log fatal error if seeding fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
