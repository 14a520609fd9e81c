package achievements

import (
	"testing"
	"time"

	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

var evalTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func names(unlocks []Unlock) []string {
	out := make([]string, 0, len(unlocks))
	for _, u := range unlocks {
		out = append(out, u.Name)
	}
	return out
}

func sameNames(got []Unlock, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, u := range got {
		if u.Name != want[i] {
			return false
		}
	}
	return true
}

func TestEvaluateByStatistics(t *testing.T) {
	cases := []struct {
		name     string
		stats    types.UserStats
		unlocked map[string]bool
		want     []string
	}{
		{
			name:  "no_progress_no_badges",
			stats: types.UserStats{},
			want:  nil,
		},
		{
			name:  "first_topic",
			stats: types.UserStats{TotalTopicsCompleted: 1},
			want:  []string{FirstTopicCompleted},
		},
		{
			name:  "ten_topics_fires_both_topic_badges",
			stats: types.UserStats{TotalTopicsCompleted: 10},
			want:  []string{FirstTopicCompleted, TenTopicsCompleted},
		},
		{
			name:  "roadmap_started_fires_create_first",
			stats: types.UserStats{TotalRoadmapsStarted: 1},
			want:  []string{CreateFirstRoadmap},
		},
		{
			name:  "five_roadmaps_fires_both_roadmap_badges",
			stats: types.UserStats{TotalRoadmapsStarted: 5},
			want:  []string{FiveRoadmapsStarted, CreateFirstRoadmap},
		},
		{
			name:     "already_unlocked_filtered",
			stats:    types.UserStats{TotalTopicsCompleted: 10, TotalRoadmapsStarted: 5},
			unlocked: map[string]bool{FirstTopicCompleted: true, CreateFirstRoadmap: true},
			want:     []string{TenTopicsCompleted, FiveRoadmapsStarted},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateByStatistics(tc.stats, tc.unlocked, evalTime)
			if !sameNames(got, tc.want) {
				t.Fatalf("EvaluateByStatistics = %v, want %v", names(got), tc.want)
			}
			for _, u := range got {
				if !u.UnlockedAt.Equal(evalTime) {
					t.Fatalf("UnlockedAt = %v, want evaluation time %v", u.UnlockedAt, evalTime)
				}
			}
		})
	}
}

func TestEvaluateByPercentage(t *testing.T) {
	cases := []struct {
		name       string
		percentage int
		unlocked   map[string]bool
		want       []string
	}{
		{name: "below_first_milestone", percentage: 24, want: nil},
		{name: "quarter", percentage: 25, want: []string{Roadmap25Percent}},
		{name: "half_fires_both", percentage: 50, want: []string{Roadmap25Percent, Roadmap50Percent}},
		{
			name:       "jump_to_hundred_fires_all_four",
			percentage: 100,
			want:       []string{Roadmap25Percent, Roadmap50Percent, Roadmap75Percent, RoadmapCompleted},
		},
		{
			name:       "already_unlocked_filtered",
			percentage: 80,
			unlocked:   map[string]bool{Roadmap25Percent: true, Roadmap50Percent: true},
			want:       []string{Roadmap75Percent},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateByPercentage(tc.percentage, tc.unlocked, evalTime)
			if !sameNames(got, tc.want) {
				t.Fatalf("EvaluateByPercentage(%d) = %v, want %v", tc.percentage, names(got), tc.want)
			}
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	stats := types.UserStats{TotalTopicsCompleted: 12, TotalRoadmapsStarted: 6}

	unlocked := map[string]bool{}
	first := EvaluateByStatistics(stats, unlocked, evalTime)
	if len(first) == 0 {
		t.Fatal("expected badges on first evaluation")
	}
	for _, u := range first {
		unlocked[u.Name] = true
	}
	if second := EvaluateByStatistics(stats, unlocked, evalTime); len(second) != 0 {
		t.Fatalf("second evaluation returned %v, want none", names(second))
	}

	unlocked = map[string]bool{}
	first = EvaluateByPercentage(100, unlocked, evalTime)
	for _, u := range first {
		unlocked[u.Name] = true
	}
	if second := EvaluateByPercentage(100, unlocked, evalTime); len(second) != 0 {
		t.Fatalf("second percentage evaluation returned %v, want none", names(second))
	}
}

func TestCatalogLookup(t *testing.T) {
	if len(Catalog()) != 8 {
		t.Fatalf("catalog has %d entries, want 8", len(Catalog()))
	}
	def := Lookup(RoadmapCompleted)
	if def == nil || def.Threshold != 100 {
		t.Fatalf("Lookup(%q) = %+v, want threshold 100", RoadmapCompleted, def)
	}
	if Lookup("no_such_badge") != nil {
		t.Fatal("Lookup of unknown badge should return nil")
	}
}
