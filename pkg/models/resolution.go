package models

// Standard quality levels advertised with every playout
var (
	// Quality1080p represents Full HD
	Quality1080p = QualityLevel{
		Name:      "1080p",
		Width:     1920,
		Height:    1080,
		Bitrate:   5000000, // 5 Mbps
		FrameRate: 30,
		Codec:     "avc1.640028",
	}

	// Quality720p represents HD
	Quality720p = QualityLevel{
		Name:      "720p",
		Width:     1280,
		Height:    720,
		Bitrate:   3000000, // 3 Mbps
		FrameRate: 30,
		Codec:     "avc1.64001f",
	}

	// Quality480p represents SD
	Quality480p = QualityLevel{
		Name:      "480p",
		Width:     854,
		Height:    480,
		Bitrate:   1500000, // 1.5 Mbps
		FrameRate: 30,
		Codec:     "avc1.4d401e",
	}

	// Quality360p represents low bandwidth
	Quality360p = QualityLevel{
		Name:      "360p",
		Width:     640,
		Height:    360,
		Bitrate:   800000, // 800 kbps
		FrameRate: 30,
		Codec:     "avc1.42c01e",
	}
)

// QualityLadder returns the fixed four-tier ladder, highest bitrate first.
// The ladder does not depend on the content.
func QualityLadder() []QualityLevel {
	return []QualityLevel{
		Quality1080p,
		Quality720p,
		Quality480p,
		Quality360p,
	}
}

// GetQualityLevel returns a quality level by name
func GetQualityLevel(name string) *QualityLevel {
	for _, q := range QualityLadder() {
		if q.Name == name {
			q := q
			return &q
		}
	}
	return nil
}
