package models

// AudioTrack represents an audio rendition offered with a playout
type AudioTrack struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Label    string `json:"label"`
	Codec    string `json:"codec"`
	Channels string `json:"channels"`
	Bitrate  int    `json:"bitrate"` // kbps
	Default  bool   `json:"default"`
}

// Audio channel layouts
const (
	ChannelsSurround = "5.1"
	ChannelsStereo   = "2.0"
)
