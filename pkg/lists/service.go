package lists

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tracklog/api/pkg/database"
	tlerrors "github.com/tracklog/api/pkg/errors"
)

// CatalogGame is the slice of catalog metadata needed to cache a game
// locally on first add.
type CatalogGame struct {
	IGDBID   int64
	Name     string
	ImageURL string
}

// PlatformEntries is one platform's slice of a user's list, ordered by game
// name. Platforms the user owns but has no entries for appear with an empty
// Games slice.
type PlatformEntries struct {
	Platform string          `json:"platform"`
	Games    []database.Game `json:"games"`
}

// Service orchestrates list and platform-ownership mutations. Dedup is
// backed by the store's unique constraints, so concurrent identical adds
// resolve there rather than in application checks.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// AddEntry puts a game on one of the user's lists. The platform name is
// resolved against the reference table case-insensitively and must be one
// the user owns. The game row is created lazily from catalog metadata.
func (s *Service) AddEntry(ctx context.Context, userID uint, listType, platformName string, game CatalogGame) (*database.ListEntry, error) {
	db := s.DB.WithContext(ctx)

	platform, err := database.FindPlatformByName(db, platformName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tlerrors.ErrUnknownPlatform
		}

		return nil, err
	}

	owned, err := database.UserOwnsPlatform(db, userID, platform.ID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, tlerrors.ErrPlatformNotOwned
	}

	g, err := database.GetOrCreateGame(db, game.IGDBID, game.Name, game.ImageURL)
	if err != nil {
		return nil, err
	}

	entry := database.ListEntry{
		UserID:     userID,
		GameID:     g.ID,
		PlatformID: platform.ID,
		ListType:   listType,
	}

	if res := db.Create(&entry); res.Error != nil {
		if tlerrors.IsUniqueViolation(res.Error) {
			return nil, tlerrors.ErrDuplicateEntry
		}

		return nil, res.Error
	}

	entry.Game = *g
	entry.Platform = *platform

	return &entry, nil
}

// RemoveEntry deletes an entry by primary key. Deleting another user's
// entry is an authorization failure, not a no-op.
func (s *Service) RemoveEntry(ctx context.Context, userID, entryID uint) error {
	db := s.DB.WithContext(ctx)

	var entry database.ListEntry
	if res := db.First(&entry, entryID); res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return tlerrors.ErrNotFound
		}

		return res.Error
	}

	if entry.UserID != userID {
		return tlerrors.ErrNotYours
	}

	// Hard delete so the unique index allows re-adding later.
	return db.Unscoped().Delete(&entry).Error
}

// RemoveEntryByKey deletes an entry addressed by its natural key.
func (s *Service) RemoveEntryByKey(ctx context.Context, userID uint, igdbID int64, platformName, listType string) error {
	db := s.DB.WithContext(ctx)

	platform, err := database.FindPlatformByName(db, platformName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tlerrors.ErrUnknownPlatform
		}

		return err
	}

	var entry database.ListEntry
	res := db.Joins("JOIN games ON games.id = list_entries.game_id").
		Where("list_entries.user_id = ? AND games.igdb_id = ? AND list_entries.platform_id = ? AND list_entries.list_type = ?",
			userID, igdbID, platform.ID, listType).
		First(&entry)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return tlerrors.ErrNotFound
		}

		return res.Error
	}

	return db.Unscoped().Delete(&entry).Error
}

// Entries returns the user's list grouped by platform, platforms ordered by
// name, games ordered by name within each platform.
func (s *Service) Entries(ctx context.Context, userID uint, listType string) ([]PlatformEntries, error) {
	db := s.DB.WithContext(ctx)

	platforms, err := database.OwnedPlatforms(db, userID)
	if err != nil {
		return nil, err
	}

	out := make([]PlatformEntries, 0, len(platforms))
	for _, p := range platforms {
		entries, err := database.EntriesForPlatform(db, userID, p.ID, listType)
		if err != nil {
			return nil, err
		}

		games := make([]database.Game, 0, len(entries))
		for _, e := range entries {
			games = append(games, e.Game)
		}

		out = append(out, PlatformEntries{Platform: p.Name, Games: games})
	}

	return out, nil
}

// Platforms returns the names of the user's platforms, ordered.
func (s *Service) Platforms(ctx context.Context, userID uint) ([]string, error) {
	platforms, err := database.OwnedPlatforms(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name)
	}

	return names, nil
}

// AddPlatform registers ownership of a reference platform.
func (s *Service) AddPlatform(ctx context.Context, userID uint, platformName string) (*database.UserPlatform, error) {
	db := s.DB.WithContext(ctx)

	platform, err := database.FindPlatformByName(db, platformName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tlerrors.ErrUnknownPlatform
		}

		return nil, err
	}

	up := database.UserPlatform{UserID: userID, PlatformID: platform.ID}
	if res := db.Create(&up); res.Error != nil {
		if tlerrors.IsUniqueViolation(res.Error) {
			return nil, tlerrors.ErrAlreadyOwned
		}

		return nil, res.Error
	}

	up.Platform = *platform

	return &up, nil
}

// RemovePlatform drops ownership and cascades to the user's entries on that
// platform. Both deletes happen in one transaction; other users' entries
// are untouched.
func (s *Service) RemovePlatform(ctx context.Context, userID uint, platformName string) error {
	db := s.DB.WithContext(ctx)

	platform, err := database.FindPlatformByName(db, platformName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tlerrors.ErrUnknownPlatform
		}

		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var up database.UserPlatform
		res := tx.Where("user_id = ? AND platform_id = ?", userID, platform.ID).First(&up)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return tlerrors.ErrNotFound
			}

			return res.Error
		}

		res = tx.Unscoped().
			Where("user_id = ? AND platform_id = ?", userID, platform.ID).
			Delete(&database.ListEntry{})
		if res.Error != nil {
			return res.Error
		}

		return tx.Unscoped().Delete(&up).Error
	})
}
