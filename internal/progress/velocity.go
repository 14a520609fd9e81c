package progress

import (
	"time"

	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

// ComputeLearningVelocity classifies how fast a user works through topics,
// from topics completed per day since the account was created. Users with no
// completed topics stay at medium rather than being marked slow.
func ComputeLearningVelocity(totalTopicsCompleted int, accountCreatedAt, now time.Time) string {
	if totalTopicsCompleted == 0 {
		return types.VelocityMedium
	}
	days := int(now.Sub(accountCreatedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}
	topicsPerDay := float64(totalTopicsCompleted) / float64(days)
	switch {
	case topicsPerDay > 0.5:
		return types.VelocityFast
	case topicsPerDay > 0.2:
		return types.VelocityMedium
	default:
		return types.VelocitySlow
	}
}
