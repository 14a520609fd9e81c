package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Topic is the unit at which completion is tracked. Subtopics are plain text;
// progress entries reference them by that text, not by position.
type Topic struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary,omitempty"`
	EstimatedTime string     `json:"estimatedTime,omitempty"`
	Subtopics     []string   `json:"subtopics"`
	Resources     []Resource `json:"resources,omitempty"`
}

type Module struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Topics      []Topic `json:"topics"`
}

// Connection is a rendering hint between two topic nodes.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Roadmap is the curriculum document. PublicID is the human-readable
// sequential id ("001", "002", ...) minted from the shared counter; it is
// distinct from the storage identity. An unsaved roadmap carries ExpiresAt
// and is removed by the cleanup sweep once it passes.
type Roadmap struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	PublicID      string         `gorm:"uniqueIndex;not null;column:public_id" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title         string         `gorm:"not null;column:title" json:"title"`
	Description   string         `gorm:"column:description" json:"description,omitempty"`
	Level         string         `gorm:"not null;default:'beginner';column:level" json:"level"`
	EstimatedTime string         `gorm:"column:estimated_time" json:"estimatedTime,omitempty"`
	IsPublic      bool           `gorm:"not null;default:false;column:is_public" json:"isPublic"`
	IsSaved       bool           `gorm:"not null;default:false;column:is_saved" json:"isSaved"`
	ExpiresAt     *time.Time     `gorm:"index;column:expires_at" json:"expiresAt,omitempty"`
	Modules       []Module       `gorm:"serializer:json;column:modules" json:"modules"`
	Connections   []Connection   `gorm:"serializer:json;column:connections" json:"connections,omitempty"`
	Metadata      datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Roadmap) TableName() string { return "roadmap" }

// FindTopic walks every module once and returns the topic with the given id.
func (r *Roadmap) FindTopic(topicID string) *Topic {
	for mi := range r.Modules {
		for ti := range r.Modules[mi].Topics {
			if r.Modules[mi].Topics[ti].ID == topicID {
				return &r.Modules[mi].Topics[ti]
			}
		}
	}
	return nil
}
