package progress

import (
	"testing"
	"time"

	"github.com/ncastellanos/roadmapr-backend/internal/types"
)

func TestComputeLearningVelocity(t *testing.T) {
	now := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	tenDaysAgo := now.AddDate(0, 0, -10)

	cases := []struct {
		name      string
		completed int
		createdAt time.Time
		want      string
	}{
		{name: "no_topics_is_medium", completed: 0, createdAt: tenDaysAgo, want: types.VelocityMedium},
		{name: "six_in_ten_days_is_fast", completed: 6, createdAt: tenDaysAgo, want: types.VelocityFast},
		{name: "three_in_ten_days_is_medium", completed: 3, createdAt: tenDaysAgo, want: types.VelocityMedium},
		{name: "one_in_ten_days_is_slow", completed: 1, createdAt: tenDaysAgo, want: types.VelocitySlow},
		{name: "fresh_account_clamps_to_one_day", completed: 1, createdAt: now, want: types.VelocityFast},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeLearningVelocity(tc.completed, tc.createdAt, now)
			if got != tc.want {
				t.Fatalf("ComputeLearningVelocity(%d)=%q, want %q", tc.completed, got, tc.want)
			}
		})
	}
}
