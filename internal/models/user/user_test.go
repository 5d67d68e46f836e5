package models

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestResolveExternalProfileCreatesUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	profile := ExternalProfile{
		Subject:   "google-sub-123",
		Name:      "Alice",
		Email:     "alice@example.com",
		AvatarURL: "https://example.com/alice.png",
	}

	u, err := ResolveExternalProfile(ctx, nil, db, profile)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)
	assert.Equal(t, RoleMember, u.Role)
	assert.Equal(t, "google-sub-123", u.GoogleID)
}

func TestResolveExternalProfileRefreshesExisting(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	profile := ExternalProfile{Subject: "google-sub-123", Name: "Alice", Email: "alice@example.com"}
	first, err := ResolveExternalProfile(ctx, nil, db, profile)
	require.NoError(t, err)

	profile.Name = "Alice Renamed"
	profile.AvatarURL = "https://example.com/new.png"
	second, err := ResolveExternalProfile(ctx, nil, db, profile)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice Renamed", second.Username)
	assert.Equal(t, "https://example.com/new.png", second.AvatarURL)

	var total int64
	require.NoError(t, db.Model(&User{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestResolveExternalProfileKeepsRole(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	profile := ExternalProfile{Subject: "google-sub-mod", Name: "Mod"}
	u, err := ResolveExternalProfile(ctx, nil, db, profile, WithRole(RoleModerator))
	require.NoError(t, err)
	require.True(t, u.IsModerator())

	// A plain re-login must not demote the moderator.
	again, err := ResolveExternalProfile(ctx, nil, db, profile)
	require.NoError(t, err)
	assert.True(t, again.IsModerator())
}

func TestGetUserByID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	u, err := ResolveExternalProfile(ctx, nil, db, ExternalProfile{Subject: "google-sub-1", Name: "Bob"})
	require.NoError(t, err)

	got, err := GetUserByID(ctx, nil, db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Username)
}
