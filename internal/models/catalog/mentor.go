package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swiftprep/swiftprep/pkg/utils"
	"gorm.io/gorm"
)

// Mentor is static reference data created out-of-band (seed scripts or admin tooling).
type Mentor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Name        string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	AvatarURL   string `gorm:"size:500" json:"avatar_url" validate:"omitempty,url"`
	College     string `gorm:"size:100;not null" json:"college" validate:"required"`
	Semester    int    `gorm:"not null" json:"semester" validate:"min=1,max=8"`
	Subject     string `gorm:"size:100;not null" json:"subject" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
}

func (m *Mentor) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// NewMentor persists a mentor record.
func NewMentor(ctx context.Context, db *gorm.DB, m *Mentor) error {
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create mentor")
	}
	return nil
}

// GetMentorByID retrieves a mentor by id.
func GetMentorByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Mentor, error) {
	var m Mentor
	if err := db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Mentor not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get mentor")
	}
	return &m, nil
}
