package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	VelocitySlow   = "slow"
	VelocityMedium = "medium"
	VelocityFast   = "fast"
)

// UserStats are the aggregate counters owned by the user row. They are only
// mutated through StatsService and the toggle flow, inside one transaction
// with whatever triggered the change.
type UserStats struct {
	TotalTopicsCompleted   int        `gorm:"not null;default:0;column:total_topics_completed" json:"totalTopicsCompleted"`
	TotalRoadmapsStarted   int        `gorm:"not null;default:0;column:total_roadmaps_started" json:"totalRoadmapsStarted"`
	TotalRoadmapsCompleted int        `gorm:"not null;default:0;column:total_roadmaps_completed" json:"totalRoadmapsCompleted"`
	TotalStudyMinutes      int        `gorm:"not null;default:0;column:total_study_minutes" json:"totalStudyMinutes"`
	AverageCompletionRate  float64    `gorm:"not null;default:0;column:average_completion_rate" json:"averageCompletionRate"`
	LongestStreak          int        `gorm:"not null;default:0;column:longest_streak" json:"longestStreak"`
	CurrentStreak          int        `gorm:"not null;default:0;column:current_streak" json:"currentStreak"`
	LastActivityDate       *time.Time `gorm:"column:last_activity_date" json:"lastActivityDate,omitempty"`
	PreferredTopics        []string   `gorm:"serializer:json;column:preferred_topics" json:"preferredTopics"`
	LearningVelocity       string     `gorm:"not null;default:'medium';column:learning_velocity" json:"learningVelocity"`
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"not null;column:username" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	Stats     UserStats `gorm:"embedded" json:"stats"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// UserAchievement is one unlocked badge. The composite unique index makes the
// unlock idempotent at the storage layer: a second insert for the same
// (user, name) is ignored.
type UserAchievement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_user_achievement,unique" json:"-"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Name        string    `gorm:"not null;index:idx_user_achievement,unique" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Icon        string    `gorm:"column:icon" json:"icon"`
	UnlockedAt  time.Time `gorm:"not null;column:unlocked_at" json:"unlockedAt"`
}

func (UserAchievement) TableName() string { return "user_achievement" }
