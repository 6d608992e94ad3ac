package models

// SubtitleTrack represents a subtitle/caption track offered with a playout.
// URL is either an ordinary HTTP URL or a data URL carrying the VTT text.
type SubtitleTrack struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Label    string `json:"label"`
	Format   string `json:"format"`
	URL      string `json:"url"`
}

// VTTCue is a single timed subtitle entry. Times are in seconds.
type VTTCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SubtitleFormat constants
const (
	SubtitleFormatVTT = "webvtt"
)
