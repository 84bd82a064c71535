package database

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model `json:"-"`

	// Username keeps the casing the user registered with; UsernameLower
	// backs the case-insensitive uniqueness constraint and all lookups.
	Username      string `json:"username" gorm:"not null"`
	UsernameLower string `json:"-" gorm:"uniqueIndex;not null"`
	Email         string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string `json:"-" gorm:"not null"`

	Platforms []UserPlatform `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Entries   []ListEntry    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.UsernameLower = strings.ToLower(u.Username)
	u.Email = strings.ToLower(u.Email)
	return nil
}

func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var u User
	res := db.Where("username_lower = ?", strings.ToLower(username)).First(&u)
	if res.Error != nil {
		return nil, res.Error
	}

	return &u, nil
}

func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var u User
	res := db.Where("email = ?", strings.ToLower(email)).First(&u)
	if res.Error != nil {
		return nil, res.Error
	}

	return &u, nil
}

func FindUserByID(db *gorm.DB, id uint) (*User, error) {
	var u User
	res := db.First(&u, id)
	if res.Error != nil {
		return nil, res.Error
	}

	return &u, nil
}
