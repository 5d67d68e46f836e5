package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swiftprep/swiftprep/pkg/utils"
	"gorm.io/gorm"
)

// AuthorSnapshot is the denormalized copy of a user's identity taken when a
// comment or reply is created. Later profile edits do not update it.
type AuthorSnapshot struct {
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Username  string    `gorm:"size:255" json:"username"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url"`
}

// Comment is owned by its video: the video_id foreign key is the only link,
// so deleting a comment can never leave a dangling reference behind.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Text    string         `gorm:"type:text;not null" json:"text" validate:"required,min=1,max=1000"`
	VideoID uuid.UUID      `gorm:"type:uuid;not null;index:idx_comment_video" json:"video_id" validate:"required"`
	Author  AuthorSnapshot `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Likes   int            `gorm:"default:0" json:"likes"`

	Replies []Reply `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"replies"`
}

// Comment ids are time-ordered v7 UUIDs so the created_at, id sort pins thread
// order even when rows share a timestamp tick.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		c.ID = id
	}
	return nil
}

// Reply is owned exclusively by its parent comment and has no independent
// lifecycle. Every reply is a freshly constructed value, never a shared template.
type Reply struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Text      string         `gorm:"type:text;not null" json:"text" validate:"required,min=1,max=1000"`
	CommentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_reply_comment" json:"comment_id" validate:"required"`
	Author    AuthorSnapshot `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Likes     int            `gorm:"default:0" json:"likes"`
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		r.ID = id
	}
	return nil
}

// NewComment creates a comment against an existing video.
func NewComment(ctx context.Context, db *gorm.DB, videoID uuid.UUID, text string, author AuthorSnapshot) (*Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "comment creation canceled")
	}

	var exists int64
	if err := db.WithContext(ctx).Model(&Video{}).Where("id = ?", videoID).Count(&exists).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check video")
	}
	if exists == 0 {
		return nil, utils.NewError(utils.ErrNotFound.Code, "Video not found")
	}

	c := &Comment{
		Text:    text,
		VideoID: videoID,
		Author:  author,
		Replies: []Reply{},
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create comment")
	}
	return c, nil
}

// ListComments returns a video's comments with their replies, both in
// insertion order.
func ListComments(ctx context.Context, db *gorm.DB, videoID uuid.UUID) ([]Comment, error) {
	var comments []Comment
	err := db.WithContext(ctx).
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc").Order("id asc")
		}).
		Where("video_id = ?", videoID).
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list comments")
	}
	return comments, nil
}

// GetCommentByID retrieves a single comment without its replies.
func GetCommentByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Comment, error) {
	var c Comment
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Comment not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get comment")
	}
	return &c, nil
}

// DeleteComment removes a comment and its replies. Deleting an id that is
// already gone is a no-op.
func DeleteComment(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&Reply{}).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete replies")
		}
		if err := tx.Where("id = ?", id).Delete(&Comment{}).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete comment")
		}
		return nil
	})
}

// NewReply appends a reply to an existing comment.
func NewReply(ctx context.Context, db *gorm.DB, commentID uuid.UUID, text string, author AuthorSnapshot) (*Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "reply creation canceled")
	}

	var exists int64
	if err := db.WithContext(ctx).Model(&Comment{}).Where("id = ?", commentID).Count(&exists).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check comment")
	}
	if exists == 0 {
		return nil, utils.NewError(utils.ErrNotFound.Code, "Comment not found")
	}

	r := &Reply{
		Text:      text,
		CommentID: commentID,
		Author:    author,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create reply")
	}
	return r, nil
}

// GetReplyByID retrieves a reply scoped to its parent comment.
func GetReplyByID(ctx context.Context, db *gorm.DB, commentID, replyID uuid.UUID) (*Reply, error) {
	var r Reply
	err := db.WithContext(ctx).First(&r, "id = ? AND comment_id = ?", replyID, commentID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Reply not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get reply")
	}
	return &r, nil
}

// DeleteReply removes exactly the reply with the given id from its parent.
// Idempotent: deleting an absent id succeeds without effect.
func DeleteReply(ctx context.Context, db *gorm.DB, commentID, replyID uuid.UUID) error {
	err := db.WithContext(ctx).
		Where("id = ? AND comment_id = ?", replyID, commentID).
		Delete(&Reply{}).Error
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete reply")
	}
	return nil
}

// LikeComment bumps the like counter atomically in the database.
func LikeComment(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).
		Model(&Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return utils.WrapError(res.Error, utils.ErrInternalServerError.Code, "Failed to like comment")
	}
	if res.RowsAffected == 0 {
		return utils.NewError(utils.ErrNotFound.Code, "Comment not found")
	}
	return nil
}
