package achievements

import (
	"time"

	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

// Unlock is a freshly earned badge, not yet merged into the user's ledger.
type Unlock struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// EvaluateByStatistics returns every statistics-driven badge the user now
// qualifies for and does not already hold. Rules are independent; a single
// call can return several badges. UnlockedAt is the evaluation time, not the
// time of the underlying accomplishment.
func EvaluateByStatistics(stats types.UserStats, unlockedNames map[string]bool, now time.Time) []Unlock {
	var unlocks []Unlock
	for i := range catalog {
		def := &catalog[i]
		if def.Qualifies == nil {
			continue
		}
		if unlockedNames[def.Name] {
			continue
		}
		if def.Qualifies(stats) {
			unlocks = append(unlocks, newUnlock(def, now))
		}
	}
	return unlocks
}

// EvaluateByPercentage returns every percentage-milestone badge at or below
// the given roadmap completion percentage that is not already unlocked. A
// jump straight to 100 yields all four milestones at once.
func EvaluateByPercentage(percentage int, unlockedNames map[string]bool, now time.Time) []Unlock {
	var unlocks []Unlock
	for i := range catalog {
		def := &catalog[i]
		if def.Threshold == 0 {
			continue
		}
		if unlockedNames[def.Name] {
			continue
		}
		if percentage >= def.Threshold {
			unlocks = append(unlocks, newUnlock(def, now))
		}
	}
	return unlocks
}

// UnlockedSet builds the filter set from a user's achievement ledger.
func UnlockedSet(unlocked []types.UserAchievement) map[string]bool {
	set := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		set[a.Name] = true
	}
	return set
}

func newUnlock(def *Definition, now time.Time) Unlock {
	return Unlock{
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		UnlockedAt:  now,
	}
}
