// Package achievements holds the static badge catalog and the pure unlock
// evaluation over user statistics and roadmap completion percentage.
package achievements

import "github.com/ncastellanos/roadmapr-backend/internal/types"

const (
	FirstTopicCompleted = "first_topic_completed"
	TenTopicsCompleted  = "ten_topics_completed"
	FiveRoadmapsStarted = "five_roadmaps_started"
	CreateFirstRoadmap  = "create_first_roadmap"
	Roadmap25Percent    = "roadmap_25_percent"
	Roadmap50Percent    = "roadmap_50_percent"
	Roadmap75Percent    = "roadmap_75_percent"
	RoadmapCompleted    = "roadmap_completed"
)

// Definition is one catalog entry. Statistics-driven badges carry Qualifies;
// percentage-driven badges carry Threshold instead.
type Definition struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`

	Qualifies func(types.UserStats) bool `json:"-"`
	Threshold int                        `json:"-"`
}

// catalog is ordered; list endpoints and evaluation preserve this order.
var catalog = []Definition{
	{
		Name:        FirstTopicCompleted,
		Title:       "🎯 First Step",
		Description: "You completed your first topic",
		Icon:        "🎯",
		Requirement: "Complete 1 topic",
		Qualifies:   func(s types.UserStats) bool { return s.TotalTopicsCompleted >= 1 },
	},
	{
		Name:        TenTopicsCompleted,
		Title:       "⭐ Expert in the Making",
		Description: "You completed 10 topics in total",
		Icon:        "⭐",
		Requirement: "Complete 10 topics",
		Qualifies:   func(s types.UserStats) bool { return s.TotalTopicsCompleted >= 10 },
	},
	{
		Name:        FiveRoadmapsStarted,
		Title:       "🚀 Explorer",
		Description: "You started 5 different roadmaps",
		Icon:        "🚀",
		Requirement: "Start 5 roadmaps",
		Qualifies:   func(s types.UserStats) bool { return s.TotalRoadmapsStarted >= 5 },
	},
	{
		Name:        CreateFirstRoadmap,
		Title:       "✏️ Designer",
		Description: "You created your first roadmap",
		Icon:        "✏️",
		Requirement: "Create 1 roadmap",
		Qualifies:   func(s types.UserStats) bool { return s.TotalRoadmapsStarted >= 1 },
	},
	{
		Name:        Roadmap25Percent,
		Title:       "📈 Quarter Way",
		Description: "You completed 25% of a roadmap",
		Icon:        "📈",
		Requirement: "25% of a roadmap",
		Threshold:   25,
	},
	{
		Name:        Roadmap50Percent,
		Title:       "🔥 Halfway There",
		Description: "You completed 50% of a roadmap",
		Icon:        "🔥",
		Requirement: "50% of a roadmap",
		Threshold:   50,
	},
	{
		Name:        Roadmap75Percent,
		Title:       "💪 Almost Done",
		Description: "You completed 75% of a roadmap",
		Icon:        "💪",
		Requirement: "75% of a roadmap",
		Threshold:   75,
	},
	{
		Name:        RoadmapCompleted,
		Title:       "🏆 Champion",
		Description: "You completed a whole roadmap",
		Icon:        "🏆",
		Requirement: "Complete 100% of a roadmap",
		Threshold:   100,
	},
}

// Catalog returns every definition in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for name, or nil when unknown.
func Lookup(name string) *Definition {
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i]
		}
	}
	return nil
}
