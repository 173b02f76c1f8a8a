package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role represents a user role in the system
type Role struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(50);unique;not null;index"`
	Description string `gorm:"type:text"`
	// Relationships
	Users []User `gorm:"foreignKey:RoleID"`
}

// User represents a system user
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string         `gorm:"type:varchar(100);unique;not null;index"`
	Email        string         `gorm:"type:varchar(255);unique;not null;index"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	RoleID       uint           `gorm:"not null;index"`
	Role         Role           `gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
	// Relationships
	Analyses []Analysis `gorm:"foreignKey:UserID"`
}

// Website represents a page URL that was analyzed at least once
type Website struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	URL         string         `gorm:"type:varchar(2048);not null;index"`
	Title       string         `gorm:"type:varchar(255);index"`
	Description string         `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	// Relationships
	Analyses []Analysis `gorm:"foreignKey:WebsiteID"`
}

// Analysis status values
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Analysis represents one analysis run of a website. Result holds the full
// serialized AnalysisResult as produced by the engine; Score, IssuesCount and
// WarningsCount are denormalized for listing and sorting.
type Analysis struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WebsiteID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Website       Website        `gorm:"foreignKey:WebsiteID"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	User          User           `gorm:"foreignKey:UserID"`
	Status        string         `gorm:"type:varchar(50);not null;default:'pending';index"`
	StartedAt     time.Time      `gorm:"default:null;index"`
	CompletedAt   time.Time      `gorm:"default:null;index"`
	Score         int            `gorm:"default:0;index"`
	IssuesCount   int            `gorm:"default:0"`
	WarningsCount int            `gorm:"default:0"`
	Result        datatypes.JSON `gorm:"type:jsonb"`
	Error         string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
