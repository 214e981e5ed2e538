package services

import (
	"testing"
	"time"
)

func TestDueOccurrences(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		head      time.Time
		frequency string
		today     time.Time
		want      []time.Time
	}{
		{
			name:      "monthly not yet due",
			head:      day(2026, 8, 1),
			frequency: "monthly",
			today:     day(2026, 8, 20),
			want:      nil,
		},
		{
			name:      "monthly due once",
			head:      day(2026, 7, 1),
			frequency: "monthly",
			today:     day(2026, 8, 5),
			want:      []time.Time{day(2026, 8, 1)},
		},
		{
			name:      "weekly catches up after downtime",
			head:      day(2026, 8, 1),
			frequency: "weekly",
			today:     day(2026, 8, 16),
			want:      []time.Time{day(2026, 8, 8), day(2026, 8, 15)},
		},
		{
			name:      "daily due today exactly",
			head:      day(2026, 8, 27),
			frequency: "daily",
			today:     day(2026, 8, 28),
			want:      []time.Time{day(2026, 8, 28)},
		},
		{
			name:      "yearly",
			head:      day(2025, 3, 10),
			frequency: "yearly",
			today:     day(2026, 8, 28),
			want:      []time.Time{day(2026, 3, 10)},
		},
		{
			name:      "unknown frequency is never due",
			head:      day(2020, 1, 1),
			frequency: "fortnightly",
			today:     day(2026, 8, 28),
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dueOccurrences(tt.head, tt.frequency, tt.today)
			if len(got) != len(tt.want) {
				t.Fatalf("occurrences = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("occurrence[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
