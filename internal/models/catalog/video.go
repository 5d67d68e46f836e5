package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/swiftprep/swiftprep/pkg/redis"
	"github.com/swiftprep/swiftprep/pkg/utils"
	"gorm.io/gorm"
)

// DefaultSemester is the semester baked into filter requests; only
// fifth-semester material is served for now.
const DefaultSemester = 5

// Video is a single lecture in the catalog, partitioned by the composite
// catalog key "{college}-{branch}-{semester}".
type Video struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	CatalogKey  string `gorm:"size:50;not null;index:idx_video_catalog" json:"catalog_key" validate:"required"`
	Subject     string `gorm:"size:100;not null" json:"subject" validate:"required,max=100"`
	SubjectCode string `gorm:"size:20" json:"subject_code" validate:"omitempty,max=20"`
	Chapter     int    `gorm:"default:0" json:"chapter" validate:"min=0"`
	Name        string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	ThumbKey    string `gorm:"size:500" json:"thumb_key"`
	NotesKey    string `gorm:"size:500" json:"notes_key"`
	VideoKey    string `gorm:"size:500" json:"video_key"`
	Likes       int    `gorm:"default:0" json:"likes"`

	MentorID uuid.UUID `gorm:"type:uuid;index" json:"mentor_id"`
	Mentor   Mentor    `gorm:"foreignKey:MentorID" json:"mentor" validate:"-"`

	Comments []Comment `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"comments,omitempty" validate:"-"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// BuildCatalogKey combines institution, branch and semester into the composite
// key used to partition the catalog, e.g. ("PES", "CSE", 5) -> "PES-CSE-5".
func BuildCatalogKey(college, branch string, semester int) string {
	college = strings.ToUpper(strings.TrimSpace(college))
	branch = strings.ToUpper(strings.TrimSpace(branch))
	return fmt.Sprintf("%s-%s-%d", college, branch, semester)
}

// VideoOption configures a Video.
type VideoOption func(*Video)

// NewVideo persists a lecture video record.
func NewVideo(ctx context.Context, db *gorm.DB, catalogKey, subject, name string, opts ...VideoOption) (*Video, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "video creation canceled")
	}

	v := &Video{
		CatalogKey: catalogKey,
		Subject:    subject,
		Name:       name,
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create video")
	}
	return v, nil
}

// GetVideoByID retrieves a video with its mentor, consulting the Redis cache first.
// Comments are listed separately and never cached with the video.
func GetVideoByID(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, id uuid.UUID) (*Video, error) {
	key := "video:" + id.String()
	if rclient != nil {
		if cached, err := rclient.Get(ctx, key).Result(); err == nil && cached != "" {
			var v Video
			if err := json.Unmarshal([]byte(cached), &v); err == nil {
				return &v, nil
			}
		}
	}

	var v Video
	if err := db.WithContext(ctx).Preload("Mentor").First(&v, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Video not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get video")
	}

	if rclient != nil {
		if videoJSON, err := json.Marshal(&v); err == nil {
			rclient.Set(ctx, key, videoJSON, 10*time.Minute)
		}
	}
	return &v, nil
}

// FilterVideos returns all videos under a composite catalog key, ordered by
// chapter then creation time.
func FilterVideos(ctx context.Context, db *gorm.DB, catalogKey string) ([]Video, error) {
	var videos []Video
	err := db.WithContext(ctx).
		Where("catalog_key = ?", catalogKey).
		Order("chapter asc").
		Order("created_at asc").
		Find(&videos).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to filter videos")
	}
	return videos, nil
}

// DistinctSubjects returns the distinct subject names among videos under a
// composite catalog key.
func DistinctSubjects(ctx context.Context, db *gorm.DB, catalogKey string) ([]string, error) {
	var subjects []string
	err := db.WithContext(ctx).
		Model(&Video{}).
		Where("catalog_key = ?", catalogKey).
		Distinct().
		Order("subject asc").
		Pluck("subject", &subjects).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list subjects")
	}
	return subjects, nil
}

// LatestVideos returns the newest lectures across the whole catalog.
func LatestVideos(ctx context.Context, db *gorm.DB, limit int) ([]Video, error) {
	if limit <= 0 {
		limit = 12
	}
	var videos []Video
	err := db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list latest videos")
	}
	return videos, nil
}

// DeleteVideo removes a video together with its whole comment thread.
// Deleting an id that is already gone is a no-op.
func DeleteVideo(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, id uuid.UUID) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uuid.UUID
		if err := tx.Model(&Comment{}).Where("video_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to collect comments")
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&Reply{}).Error; err != nil {
				return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete replies")
			}
		}
		if err := tx.Where("video_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete comments")
		}
		if err := tx.Where("id = ?", id).Delete(&Video{}).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete video")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if rclient != nil {
		rclient.Del(ctx, "video:"+id.String())
	}
	return nil
}

// LikeVideo bumps the like counter atomically in the database.
func LikeVideo(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).
		Model(&Video{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return utils.WrapError(res.Error, utils.ErrInternalServerError.Code, "Failed to like video")
	}
	if res.RowsAffected == 0 {
		return utils.NewError(utils.ErrNotFound.Code, "Video not found")
	}
	if rclient != nil {
		rclient.Del(ctx, "video:"+id.String())
	}
	return nil
}
