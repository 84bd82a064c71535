package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	tlerrors "github.com/tracklog/api/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return db
}

func TestUsernameUniqueCaseInsensitive(t *testing.T) {
	db := openTestDB(t)

	first := User{Username: "Ann", Email: "ann@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&first).Error)

	for _, variant := range []string{"Ann", "ann", "ANN"} {
		dup := User{Username: variant, Email: variant + "@elsewhere.com", PasswordHash: "x"}
		err := db.Create(&dup).Error
		require.Error(t, err, variant)
		assert.True(t, tlerrors.IsUniqueViolation(err), variant)
	}

	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEmailUniqueAndLowercased(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&User{Username: "a", Email: "Ann@Example.com", PasswordHash: "x"}).Error)

	var u User
	require.NoError(t, db.First(&u).Error)
	assert.Equal(t, "ann@example.com", u.Email)

	err := db.Create(&User{Username: "b", Email: "ANN@EXAMPLE.COM", PasswordHash: "x"}).Error
	require.Error(t, err)
	assert.True(t, tlerrors.IsUniqueViolation(err))
}

func TestFindUserByUsernameCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&User{Username: "Ann", Email: "ann@example.com", PasswordHash: "x"}).Error)

	u, err := FindUserByUsername(db, "aNN")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Username)

	_, err = FindUserByUsername(db, "bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSeedPlatformsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedPlatforms(db, DefaultPlatforms))
	require.NoError(t, SeedPlatforms(db, DefaultPlatforms))

	var count int64
	require.NoError(t, db.Model(&Platform{}).Count(&count).Error)
	assert.EqualValues(t, len(DefaultPlatforms), count)
}

func TestFindPlatformByNameCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, SeedPlatforms(db, []string{"PC", "Nintendo Switch"}))

	p, err := FindPlatformByName(db, "pc")
	require.NoError(t, err)
	assert.Equal(t, "PC", p.Name)

	p, err = FindPlatformByName(db, "NINTENDO SWITCH")
	require.NoError(t, err)
	assert.Equal(t, "Nintendo Switch", p.Name)

	_, err = FindPlatformByName(db, "Dreamcast")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetOrCreateGameSharedAcrossCallers(t *testing.T) {
	db := openTestDB(t)

	a, err := GetOrCreateGame(db, 42, "Portal", "https://img/portal.png")
	require.NoError(t, err)

	// Second call with different metadata returns the cached row untouched.
	b, err := GetOrCreateGame(db, 42, "Portal (renamed)", "")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Portal", b.Name)

	var count int64
	require.NoError(t, db.Model(&Game{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestListEntryTupleUnique(t *testing.T) {
	db := openTestDB(t)

	entry := ListEntry{UserID: 1, GameID: 2, PlatformID: 3, ListType: "backlog"}
	require.NoError(t, db.Create(&entry).Error)

	dup := ListEntry{UserID: 1, GameID: 2, PlatformID: 3, ListType: "backlog"}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, tlerrors.IsUniqueViolation(err))

	// Any different component of the tuple is fine.
	require.NoError(t, db.Create(&ListEntry{UserID: 1, GameID: 2, PlatformID: 3, ListType: "playing"}).Error)
	require.NoError(t, db.Create(&ListEntry{UserID: 2, GameID: 2, PlatformID: 3, ListType: "backlog"}).Error)
}

func TestUserPlatformPairUnique(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&UserPlatform{UserID: 1, PlatformID: 1}).Error)

	err := db.Create(&UserPlatform{UserID: 1, PlatformID: 1}).Error
	require.Error(t, err)
	assert.True(t, tlerrors.IsUniqueViolation(err))
}
