package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPlatforms is the reference platform list seeded on boot.
var DefaultPlatforms = []string{
	"PC",
	"PlayStation 4",
	"PlayStation 5",
	"Xbox One",
	"Xbox Series X|S",
	"Nintendo Switch",
	"Nintendo 3DS",
	"iOS",
	"Android",
	"Linux",
	"Mac",
}

func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Platform{},
		&UserPlatform{},
		&Game{},
		&ListEntry{},
	)
}

// SeedPlatforms inserts any missing reference platforms. Existing rows keep
// their canonical casing.
func SeedPlatforms(db *gorm.DB, names []string) error {
	for _, name := range names {
		var p Platform
		res := db.Where("LOWER(name) = LOWER(?)", name).
			Attrs(Platform{Name: name}).
			FirstOrCreate(&p)
		if res.Error != nil {
			return res.Error
		}
	}

	return nil
}
