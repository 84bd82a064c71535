package database

import (
	"gorm.io/gorm"
)

// Platform is seeded reference data; users never create platforms, they
// register ownership of one through UserPlatform.
type Platform struct {
	gorm.Model `json:"-"`

	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// UserPlatform records that a user owns a platform.
type UserPlatform struct {
	gorm.Model `json:"-"`

	UserID     uint `json:"-" gorm:"uniqueIndex:idx_user_platform;not null"`
	PlatformID uint `json:"-" gorm:"uniqueIndex:idx_user_platform;not null"`

	Platform Platform `json:"platform"`
}

// FindPlatformByName matches the reference table case-insensitively so
// "pc" resolves to the canonical "PC" row.
func FindPlatformByName(db *gorm.DB, name string) (*Platform, error) {
	var p Platform
	res := db.Where("LOWER(name) = LOWER(?)", name).First(&p)
	if res.Error != nil {
		return nil, res.Error
	}

	return &p, nil
}

func UserOwnsPlatform(db *gorm.DB, userID, platformID uint) (bool, error) {
	var count int64
	res := db.Model(&UserPlatform{}).
		Where("user_id = ? AND platform_id = ?", userID, platformID).
		Count(&count)
	if res.Error != nil {
		return false, res.Error
	}

	return count > 0, nil
}

// OwnedPlatforms returns the user's platforms ordered by platform name.
func OwnedPlatforms(db *gorm.DB, userID uint) ([]Platform, error) {
	var platforms []Platform
	res := db.Model(&Platform{}).
		Joins("JOIN user_platforms ON user_platforms.platform_id = platforms.id").
		Where("user_platforms.user_id = ? AND user_platforms.deleted_at IS NULL", userID).
		Order("platforms.name").
		Find(&platforms)
	if res.Error != nil {
		return nil, res.Error
	}

	return platforms, nil
}
