package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tracklog/api/pkg/database"
)

// memSessionStore is an in-memory SessionStore for tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]Session{}}
}

func (m *memSessionStore) Create(_ context.Context, s Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.sessions[id] = s
	return id, nil
}

func (m *memSessionStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	return &Manager{
		DB:         openTestDB(t),
		Store:      newMemSessionStore(),
		BcryptCost: 4,
	}
}

func createTestUser(t *testing.T, m *Manager, username, password string) *database.User {
	t.Helper()

	digest, err := HashPassword(password, m.BcryptCost)
	require.NoError(t, err)

	u := database.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: digest,
	}
	require.NoError(t, m.DB.Create(&u).Error)

	return &u
}
