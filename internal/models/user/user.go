package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
	"github.com/swiftprep/swiftprep/pkg/utils"
	"gorm.io/gorm"
)

// Roles a user can hold. Moderators may upload lectures and remove any comment.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
)

// User is created on first successful Google sign-in and never deleted.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Username  string `gorm:"size:255;not null" json:"username" validate:"required,max=255"`
	Email     string `gorm:"size:100;index" json:"email" validate:"omitempty,email"`
	GoogleID  string `gorm:"size:255;not null;uniqueIndex" json:"-" validate:"required"`
	AvatarURL string `gorm:"size:500" json:"avatar_url" validate:"omitempty,url"`
	Role      string `gorm:"size:20;not null;default:'member'" json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserOption configures a User.
type UserOption func(*User)

// ExternalProfile is the identity data returned by the OAuth provider.
type ExternalProfile struct {
	Subject   string `json:"sub"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"picture"`
}

// ResolveExternalProfile exchanges an OAuth profile for the local user record,
// creating it on first sign-in. Display name and avatar refresh on every login;
// comment author snapshots taken earlier are not touched.
func ResolveExternalProfile(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, profile ExternalProfile, opts ...UserOption) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "profile resolution canceled")
	}

	var u User
	err := db.WithContext(ctx).Where("google_id = ?", profile.Subject).First(&u).Error
	switch {
	case err == nil:
		u.Username = profile.Name
		u.Email = profile.Email
		u.AvatarURL = profile.AvatarURL
		for _, opt := range opts {
			opt(&u)
		}
		if err := db.WithContext(ctx).Save(&u).Error; err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to refresh user profile")
		}
	case err == gorm.ErrRecordNotFound:
		u = User{
			Username:  profile.Name,
			Email:     profile.Email,
			GoogleID:  profile.Subject,
			AvatarURL: profile.AvatarURL,
			Role:      RoleMember,
		}
		for _, opt := range opts {
			opt(&u)
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create user")
		}
	default:
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to look up user")
	}

	if rclient != nil {
		if userJSON, err := json.Marshal(&u); err == nil {
			rclient.Set(ctx, "user:"+u.ID.String(), userJSON, 30*time.Minute)
		}
	}

	return &u, nil
}

// GetUserBy retrieves a user matching the condition.
func GetUserBy(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, condition string, args []interface{}) (*User, error) {
	var u User
	if err := db.WithContext(ctx).Where(condition, args...).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "User not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get user")
	}
	return &u, nil
}

// GetUserByID retrieves a user by id, consulting the Redis cache first.
func GetUserByID(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, id uuid.UUID) (*User, error) {
	key := "user:" + id.String()
	if rclient != nil {
		if cached, err := rclient.Get(ctx, key).Result(); err == nil && cached != "" {
			var u User
			if err := json.Unmarshal([]byte(cached), &u); err == nil {
				return &u, nil
			}
		}
	}

	u, err := GetUserBy(ctx, rclient, db, "id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}

	if rclient != nil {
		if userJSON, err := json.Marshal(u); err == nil {
			rclient.Set(ctx, key, userJSON, 30*time.Minute)
		}
	}
	return u, nil
}

// IsModerator reports whether the user holds the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
