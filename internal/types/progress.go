package types

import (
	"time"

	"github.com/google/uuid"
)

// SubtopicProgress is one checkbox. The key is the subtopic's literal text so
// the entry survives reordering of the roadmap document.
type SubtopicProgress struct {
	SubtopicContent string `json:"subtopicContent"`
	IsCompleted     bool   `json:"isCompleted"`
}

// ProgressRecord holds one user's completion state for one topic. Uniqueness
// is on the full (user, roadmap, topic) triple: topic ids are only unique
// within a roadmap, so two roadmaps sharing a topic id must not collide.
// Version is the optimistic lock; every write is a compare-and-swap on it.
type ProgressRecord struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey" json:"-"`
	UserID           uuid.UUID          `gorm:"type:uuid;not null;index:idx_user_roadmap_topic,unique" json:"userId"`
	User             *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	RoadmapID        uuid.UUID          `gorm:"type:uuid;not null;index:idx_user_roadmap_topic,unique" json:"-"`
	Roadmap          *Roadmap           `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoadmapID;references:ID" json:"-"`
	TopicID          string             `gorm:"not null;index:idx_user_roadmap_topic,unique" json:"topicId"`
	SubtopicProgress []SubtopicProgress `gorm:"serializer:json;column:subtopic_progress" json:"subtopicProgress"`
	IsTopicCompleted bool               `gorm:"not null;default:false;column:is_topic_completed" json:"isTopicCompleted"`
	Version          int64              `gorm:"not null;default:0;column:version" json:"-"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProgressRecord) TableName() string { return "progress_record" }

// CompletedCount returns how many entries are flagged complete.
func (p *ProgressRecord) CompletedCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, s := range p.SubtopicProgress {
		if s.IsCompleted {
			n++
		}
	}
	return n
}

// SetSubtopic overwrites the entry for content, appending it when missing.
func (p *ProgressRecord) SetSubtopic(content string, completed bool) {
	for i := range p.SubtopicProgress {
		if p.SubtopicProgress[i].SubtopicContent == content {
			p.SubtopicProgress[i].IsCompleted = completed
			return
		}
	}
	p.SubtopicProgress = append(p.SubtopicProgress, SubtopicProgress{
		SubtopicContent: content,
		IsCompleted:     completed,
	})
}
