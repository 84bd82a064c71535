package database

import (
	"gorm.io/gorm"
)

// ListEntry is one game tracked under one of a user's lists on one
// platform. The composite index is what actually enforces the no-duplicates
// rule; application-level checks only exist for friendlier error messages.
type ListEntry struct {
	gorm.Model

	UserID     uint   `json:"-" gorm:"uniqueIndex:idx_list_entry;not null"`
	GameID     uint   `json:"-" gorm:"uniqueIndex:idx_list_entry;not null"`
	PlatformID uint   `json:"-" gorm:"uniqueIndex:idx_list_entry;not null"`
	ListType   string `json:"list_type" gorm:"uniqueIndex:idx_list_entry;not null"`

	Game     Game     `json:"game"`
	Platform Platform `json:"platform"`
}

// EntriesForPlatform returns a user's entries on one platform for one list,
// ordered by game name.
func EntriesForPlatform(db *gorm.DB, userID, platformID uint, listType string) ([]ListEntry, error) {
	var entries []ListEntry
	res := db.Preload("Game").Preload("Platform").
		Joins("JOIN games ON games.id = list_entries.game_id").
		Where("list_entries.user_id = ? AND list_entries.platform_id = ? AND list_entries.list_type = ?",
			userID, platformID, listType).
		Order("games.name").
		Find(&entries)
	if res.Error != nil {
		return nil, res.Error
	}

	return entries, nil
}
