package models

import "time"

// CompletionThreshold is the watched fraction at which content counts as completed
const CompletionThreshold = 0.9

// WatchProgress is the playback position of a single content item.
// There is at most one record per content id.
type WatchProgress struct {
	ContentID      int       `json:"contentId"`
	ElapsedSeconds float64   `json:"elapsedSeconds"`
	LastWatched    time.Time `json:"lastWatched"`
	Completed      bool      `json:"completed"`
}

// IsCompleted reports whether elapsed covers at least 90% of duration
func IsCompleted(elapsed float64, duration int) bool {
	if duration <= 0 {
		return false
	}
	return elapsed >= CompletionThreshold*float64(duration)
}

// ContinueWatchingItem joins a progress record with its content
type ContinueWatchingItem struct {
	Content  *ContentEntity `json:"content"`
	Progress WatchProgress  `json:"progress"`
}
