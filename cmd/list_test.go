package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/iksnae/var-manager/internal"
)

func TestDisplayGlobalSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		result *internal.ListGlobalSnapshotsResult
	}{
		{
			name:   "empty result",
			result: &internal.ListGlobalSnapshotsResult{Snapshots: []internal.GlobalSnapshotMetadata{}},
		},
		{
			name: "single snapshot",
			result: &internal.ListGlobalSnapshotsResult{
				Snapshots: []internal.GlobalSnapshotMetadata{
					{
						SnapshotID: "var_snapshot_1700000000000_deadbeef",
						Name:       "Checkpoint",
						Tags:       []string{"story", "act2"},
						UpdatedAt:  time.Now().UnixMilli(),
					},
				},
				Total: 1,
			},
		},
		{
			name: "snapshot with long name and no tags",
			result: &internal.ListGlobalSnapshotsResult{
				Snapshots: []internal.GlobalSnapshotMetadata{
					{
						SnapshotID: "var_snapshot_1700000000000_cafebabe",
						Name:       strings.Repeat("a very long snapshot name ", 4),
						Tags:       []string{},
						UpdatedAt:  time.Now().UnixMilli(),
					},
				},
				Total: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Display must not panic on any shape of result
			displayGlobalSnapshots(tt.result)
		})
	}
}

func TestFormatRelativeTime(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"today", time.Now().Add(-1 * time.Hour), "Today"},
		{"this week", time.Now().Add(-3 * 24 * time.Hour), time.Now().Add(-3 * 24 * time.Hour).Format("Mon")},
		{"this year", time.Now().Add(-30 * 24 * time.Hour), time.Now().Add(-30 * 24 * time.Hour).Format("Jan")},
		{"years ago", time.Now().Add(-2 * 365 * 24 * time.Hour), time.Now().Add(-2 * 365 * 24 * time.Hour).Format("2006")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatRelativeTime(tt.t)
			if !strings.Contains(got, tt.want) {
				t.Errorf("formatRelativeTime() = %q, want substring %q", got, tt.want)
			}
		})
	}
}
