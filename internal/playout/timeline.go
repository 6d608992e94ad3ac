package playout

import (
	"fmt"

	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

const (
	introWindow        = 30
	movieCreditsWindow = 120
	showCreditsWindow  = 30

	chapterThreshold = 3600
	midrollThreshold = 1800
	adSlotDuration   = 30
)

// CreditsWindow returns the credits-skip window length for content
func CreditsWindow(content *models.ContentEntity) int {
	if content.IsMovie() {
		return movieCreditsWindow
	}
	return showCreditsWindow
}

// BuildMarkers computes the intro and credits skip windows. Movies have no
// intro window; every other type gets 30 seconds from the start.
func BuildMarkers(content *models.ContentEntity) models.Markers {
	m := models.Markers{
		SkipCredits: content.DurationInSeconds - CreditsWindow(content),
		CreditsEnd:  content.DurationInSeconds,
	}
	if !content.IsMovie() {
		m.SkipIntro = introWindow
	}
	if m.SkipCredits < 0 {
		m.SkipCredits = 0
	}
	return m
}

var chapterTitles = [4]string{"Act 1", "Act 2", "Act 3", "Act 4"}

// BuildChapters splits content longer than an hour into four equal acts.
// Shorter content has no chapters.
func BuildChapters(duration int) []models.Chapter {
	chapters := make([]models.Chapter, 0, len(chapterTitles))
	if duration <= chapterThreshold {
		return chapters
	}

	for i, title := range chapterTitles {
		chapters = append(chapters, models.Chapter{
			Title: title,
			Start: duration * i / len(chapterTitles),
			End:   duration * (i + 1) / len(chapterTitles),
		})
	}
	return chapters
}

// buildAdvertising enables ads exactly for unprotected content: one preroll,
// one postroll, and a midpoint midroll for content over 30 minutes.
func (r *Resolver) buildAdvertising(content *models.ContentEntity) models.Advertising {
	ads := models.Advertising{
		Enabled:  !content.DRM,
		Preroll:  []models.AdSlot{},
		Midroll:  []models.AdSlot{},
		Postroll: []models.AdSlot{},
	}
	if !ads.Enabled {
		return ads
	}

	d := content.DurationInSeconds
	ads.Preroll = append(ads.Preroll, r.adSlot("preroll", content.ID, 0))
	if d > midrollThreshold {
		ads.Midroll = append(ads.Midroll, r.adSlot("midroll", content.ID, d/2))
	}
	ads.Postroll = append(ads.Postroll, r.adSlot("postroll", content.ID, d))
	return ads
}

func (r *Resolver) adSlot(kind string, contentID, position int) models.AdSlot {
	id := fmt.Sprintf("%s-%d", kind, contentID)
	return models.AdSlot{
		ID:       id,
		Position: position,
		Duration: adSlotDuration,
		TagURL:   fmt.Sprintf("%s?slot=%s&contentId=%d&position=%d", r.cfg.AdServerURL, kind, contentID, position),
	}
}
