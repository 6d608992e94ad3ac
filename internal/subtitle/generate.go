// Package subtitle produces, loads and parses WebVTT subtitle documents.
package subtitle

import (
	"fmt"
	"math"
	"strings"
)

const (
	// TileCount is how many times a caption template is repeated
	TileCount = 10
	// TileSeconds is the offset applied to each successive tile
	TileSeconds = 60
)

type templateCue struct {
	start float64
	end   float64
	text  string
}

// Template times only use fractions exactly representable in binary so
// millisecond flooring never drops a digit.
var englishTemplate = []templateCue{
	{2.0, 5.0, "Welcome to StreamTV."},
	{5.5, 8.5, "Tonight we travel to the edge of the map."},
	{9.0, 12.0, "<i>The wind carries the sound of the sea.</i>"},
	{12.5, 15.5, "Do you hear that?"},
	{16.0, 19.0, "It's coming from the lighthouse."},
	{19.5, 22.5, "Nobody has lived there for years."},
	{23.0, 26.0, "Then who keeps the lamp burning?"},
	{26.5, 29.5, "<b>Stay close to me.</b>"},
	{30.0, 33.0, "The door is already open."},
	{33.5, 36.5, "Look at these maps on the wall."},
	{37.0, 40.0, "Someone has been charting the storms."},
	{40.5, 43.5, "Every storm for the last hundred years."},
	{44.0, 47.0, "And the next one arrives tonight."},
	{47.5, 50.5, "We should warn the village."},
	{51.0, 54.0, "There's no time. Listen!"},
	{54.5, 57.5, "[thunder rumbling]"},
	{58.0, 59.75, "Hold on!"},
}

var arabicTemplate = []templateCue{
	{2.0, 5.0, "مرحبا بكم في ستريم تي في."},
	{5.5, 9.0, "الليلة نسافر إلى حافة الخريطة."},
	{9.5, 13.0, "<i>الريح تحمل صوت البحر.</i>"},
	{13.5, 16.5, "هل تسمع ذلك؟"},
	{17.0, 20.5, "إنه قادم من المنارة."},
	{21.0, 24.5, "لم يسكن هناك أحد منذ سنوات."},
	{25.0, 28.5, "إذن من يبقي المصباح مشتعلا؟"},
	{29.0, 32.0, "<b>ابق قريبا مني.</b>"},
	{32.5, 36.0, "الباب مفتوح بالفعل."},
	{36.5, 40.0, "انظر إلى هذه الخرائط على الجدار."},
	{40.5, 44.0, "أحدهم كان يرسم العواصف."},
	{44.5, 48.0, "والعاصفة القادمة تصل الليلة."},
	{48.5, 52.0, "يجب أن نحذر القرية."},
	{52.5, 56.0, "[هدير الرعد]"},
	{56.5, 59.5, "تمسك جيدا!"},
}

var templates = map[string][]templateCue{
	"english": englishTemplate,
	"arabic":  arabicTemplate,
}

// HasGenerated reports whether a generated document exists for the language label
func HasGenerated(language string) bool {
	_, ok := templates[strings.ToLower(language)]
	return ok
}

// TemplateSize returns the number of cues in one tile for the language label
func TemplateSize(language string) int {
	return len(templates[strings.ToLower(language)])
}

// Generate returns the ten minute WebVTT document for the language label.
// Only English and Arabic have generated documents.
func Generate(language string) (string, bool) {
	tmpl, ok := templates[strings.ToLower(language)]
	if !ok {
		return "", false
	}
	return render(tmpl), true
}

func render(tmpl []templateCue) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for tile := 0; tile < TileCount; tile++ {
		offset := float64(tile * TileSeconds)
		suffix := ""
		if tile > 0 {
			suffix = fmt.Sprintf(" (%d)", tile+1)
		}

		for _, cue := range tmpl {
			sb.WriteString(FormatTimestamp(cue.start + offset))
			sb.WriteString(" --> ")
			sb.WriteString(FormatTimestamp(cue.end + offset))
			sb.WriteString("\n")
			sb.WriteString(cue.text)
			sb.WriteString(suffix)
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// FormatTimestamp formats seconds as HH:MM:SS.mmm. Every component is
// floored, including milliseconds.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	whole := math.Floor(seconds)
	total := int(whole)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	millis := int(math.Floor((seconds - whole) * 1000))

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}
