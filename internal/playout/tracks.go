package playout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/therealutkarshpriyadarshi/streamtv/internal/subtitle"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// BuildAudioTracks returns one track per language. English is 5.1 at
// 256 kbps, every other language stereo at 128 kbps.
func BuildAudioTracks(languages []string) []models.AudioTrack {
	tracks := make([]models.AudioTrack, 0, len(languages))
	for i, lang := range languages {
		code := subtitle.LanguageCode(lang)
		track := models.AudioTrack{
			ID:       fmt.Sprintf("audio-%d-%s", i, code),
			Language: code,
			Label:    subtitle.NativeLabel(lang),
			Codec:    "mp4a.40.2",
			Channels: models.ChannelsStereo,
			Bitrate:  128,
			Default:  i == 0,
		}
		if strings.EqualFold(lang, "English") {
			track.Codec = "ec-3"
			track.Channels = models.ChannelsSurround
			track.Bitrate = 256
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// subtitleSource renders generated documents once and hands out their data URLs
type subtitleSource struct {
	fallbackBaseURL string

	once     sync.Once
	dataURLs map[string]string
}

func newSubtitleSource(fallbackBaseURL string) *subtitleSource {
	return &subtitleSource{fallbackBaseURL: fallbackBaseURL}
}

func (s *subtitleSource) url(contentID int, lang string) string {
	s.once.Do(func() {
		s.dataURLs = make(map[string]string)
		for _, l := range []string{"english", "arabic"} {
			if doc, ok := subtitle.Generate(l); ok {
				s.dataURLs[l] = subtitle.DataURL(doc)
			}
		}
	})

	if u, ok := s.dataURLs[strings.ToLower(lang)]; ok {
		return u
	}
	return fmt.Sprintf("%s/%d/%s.vtt", s.fallbackBaseURL, contentID, subtitle.LanguageCode(lang))
}

// tracks returns one subtitle track per available language
func (s *subtitleSource) tracks(content *models.ContentEntity) []models.SubtitleTrack {
	tracks := make([]models.SubtitleTrack, 0, len(content.AvailableLanguages))
	for i, lang := range content.AvailableLanguages {
		code := subtitle.LanguageCode(lang)
		tracks = append(tracks, models.SubtitleTrack{
			ID:       fmt.Sprintf("sub-%d-%s", i, code),
			Language: code,
			Label:    subtitle.NativeLabel(lang),
			Format:   models.SubtitleFormatVTT,
			URL:      s.url(content.ID, lang),
		})
	}
	return tracks
}
