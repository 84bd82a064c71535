package database

import (
	"gorm.io/gorm"
)

// Game caches catalog metadata locally. Rows are created lazily the first
// time any user adds the game to a list, then shared across users.
type Game struct {
	gorm.Model `json:"-"`

	IGDBID   int64  `json:"igdb_id" gorm:"uniqueIndex;not null"`
	Name     string `json:"name" gorm:"not null"`
	ImageURL string `json:"image_url"`
}

func GetOrCreateGame(db *gorm.DB, igdbID int64, name, imageURL string) (*Game, error) {
	var g Game
	res := db.Where(Game{IGDBID: igdbID}).
		Attrs(Game{Name: name, ImageURL: imageURL}).
		FirstOrCreate(&g)
	if res.Error != nil {
		return nil, res.Error
	}

	return &g, nil
}
