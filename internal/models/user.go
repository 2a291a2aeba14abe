package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string         `gorm:"size:150;not null" json:"first_name"`
	LastName     string         `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

// Follow records that Follower subscribed to Author's recipes. The composite
// unique index is the authority on duplicates under concurrent requests.
type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_follow_pair" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"author_id"`
}

func (Follow) TableName() string { return "follows" }
