package subtitle

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// timingLineRe matches "HH:MM:SS.mmm --> HH:MM:SS.mmm"; a comma is accepted
// as the millisecond separator. Cue settings after the end time are ignored.
var timingLineRe = regexp.MustCompile(`^\s*(\d{2}:\d{2}:\d{2}[.,]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[.,]\d{3})`)

// tagRe matches inline markup such as <i>, </b> or <c.yellow>.
var tagRe = regexp.MustCompile(`<[^>]+>`)

// Diagnostic describes a timing line the parser skipped
type Diagnostic struct {
	Line   int    `json:"line"` // 1-based
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Parse converts WebVTT text into cues in source order. Malformed timing
// lines are skipped silently.
func Parse(text string) []models.VTTCue {
	cues, _ := parse(text)
	return cues
}

// ParseStrict is Parse plus a diagnostic for every skipped timing line.
func ParseStrict(text string) ([]models.VTTCue, []Diagnostic) {
	return parse(text)
}

func parse(text string) ([]models.VTTCue, []Diagnostic) {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}

	cues := make([]models.VTTCue, 0)
	var diags []Diagnostic

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if line == "" || strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") {
			continue
		}
		if !strings.Contains(line, "-->") {
			// cue identifiers and stray text
			continue
		}

		m := timingLineRe.FindStringSubmatch(line)
		if m == nil {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "malformed timestamp"})
			continue
		}

		start := parseTime(m[1])
		end := parseTime(m[2])
		if end < start {
			diags = append(diags, Diagnostic{Line: i + 1, Text: line, Reason: "end before start"})
			continue
		}

		var body []string
		for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			i++
			body = append(body, lines[i])
		}

		cues = append(cues, models.VTTCue{
			Start: start,
			End:   end,
			Text:  tagRe.ReplaceAllString(strings.Join(body, "\n"), ""),
		})
	}

	return cues, diags
}

// parseTime converts HH:MM:SS.mmm (or HH:MM:SS,mmm) to seconds
func parseTime(ts string) float64 {
	parts := strings.Split(strings.Replace(ts, ",", ".", 1), ":")
	if len(parts) < 3 {
		return 0
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.ParseFloat(parts[len(parts)-1], 64)

	return float64(hours*3600+minutes*60) + seconds
}

// CurrentCue returns the text of the first cue whose [start, end] window
// contains t.
func CurrentCue(cues []models.VTTCue, t float64) (string, bool) {
	for _, cue := range cues {
		if cue.Start <= t && t <= cue.End {
			return cue.Text, true
		}
	}
	return "", false
}
