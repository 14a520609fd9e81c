// Package progress derives completion statistics from roadmap structure and
// raw progress records. Everything in here is pure; no I/O, no clock.
package progress

import (
	"math"

	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

type TopicStats struct {
	TotalSubtopics     int     `json:"totalSubtopics"`
	CompletedSubtopics int     `json:"completedSubtopics"`
	RemainingSubtopics int     `json:"remainingSubtopics"`
	Percentage         float64 `json:"percentage"`
	IsTopicCompleted   bool    `json:"isTopicCompleted"`
}

type RoadmapStats struct {
	TotalTopics        int `json:"totalTopics"`
	CompletedTopics    int `json:"completedTopics"`
	TotalSubtopics     int `json:"totalSubtopics"`
	CompletedSubtopics int `json:"completedSubtopics"`
	Percentage         int `json:"percentage"`
}

// ComputeTopicStats derives a topic's completion state from its declared
// subtopics and the record, which may be nil when nothing was toggled yet.
// Total comes from the topic document, completed from the record; a topic
// with zero declared subtopics yields zero percentage and no completion.
func ComputeTopicStats(topic *types.Topic, record *types.ProgressRecord) TopicStats {
	total := len(topic.Subtopics)
	completed := record.CompletedCount()
	stats := TopicStats{
		TotalSubtopics:     total,
		CompletedSubtopics: completed,
		RemainingSubtopics: total - completed,
	}
	if total == 0 {
		return stats
	}
	stats.Percentage = float64(completed) / float64(total) * 100
	stats.IsTopicCompleted = completed == total
	return stats
}

// ComputeRoadmapStats walks every topic across every module exactly once.
// A topic counts as completed iff its record says IsTopicCompleted; partial
// subtopic completion inside an incomplete topic does not move the topic
// count. Percentage is completed/total topics rounded to nearest integer.
func ComputeRoadmapStats(modules []types.Module, recordsByTopicID map[string]*types.ProgressRecord) RoadmapStats {
	var stats RoadmapStats
	for mi := range modules {
		for ti := range modules[mi].Topics {
			topic := &modules[mi].Topics[ti]
			stats.TotalTopics++
			stats.TotalSubtopics += len(topic.Subtopics)
			if record, ok := recordsByTopicID[topic.ID]; ok && record != nil {
				stats.CompletedSubtopics += record.CompletedCount()
				if record.IsTopicCompleted {
					stats.CompletedTopics++
				}
			}
		}
	}
	if stats.TotalTopics > 0 {
		stats.Percentage = int(math.Round(float64(stats.CompletedTopics) / float64(stats.TotalTopics) * 100))
	}
	return stats
}
