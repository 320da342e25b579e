package workers

import (
	"testing"
	"time"
)

func TestCalculateNextCheckTime(t *testing.T) {
	from := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule string
		want     *time.Time
	}{
		{
			name:     "daily at 2am",
			schedule: "0 2 * * *",
			want:     timePtr(time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)),
		},
		{
			name:     "hourly",
			schedule: "0 * * * *",
			want:     timePtr(time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)),
		},
		{
			name:     "invalid expression",
			schedule: "not a cron",
			want:     nil,
		},
		{
			name:     "empty expression",
			schedule: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateNextCheckTime(tt.schedule, from)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("calculateNextCheckTime() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("calculateNextCheckTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
