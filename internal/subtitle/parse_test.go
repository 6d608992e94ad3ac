package subtitle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

const sampleVTT = "WEBVTT\n" +
	"\n" +
	"NOTE this is a comment\n" +
	"\n" +
	"1\n" +
	"00:00:01.000 --> 00:00:02.500\n" +
	"<c.yellow>Hello</c>\n" +
	"world\n" +
	"\n" +
	"00:00:03 --> 00:00:04\n" +
	"missing millis\n" +
	"\n" +
	"2\n" +
	"00:00:05,250 --> 00:00:06,000 align:start\n" +
	"Comma separated\n" +
	"\n" +
	"00:00:08.000 --> 00:00:07.000\n" +
	"backwards\n"

func TestParse(t *testing.T) {
	cues := Parse(sampleVTT)

	want := []models.VTTCue{
		{Start: 1, End: 2.5, Text: "Hello\nworld"},
		{Start: 5.25, End: 6, Text: "Comma separated"},
	}
	if diff := cmp.Diff(want, cues); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStrictReportsSkippedLines(t *testing.T) {
	cues, diags := ParseStrict(sampleVTT)

	assert.Len(t, cues, 2)
	want := []Diagnostic{
		{Line: 10, Text: "00:00:03 --> 00:00:04", Reason: "malformed timestamp"},
		{Line: 17, Text: "00:00:08.000 --> 00:00:07.000", Reason: "end before start"},
	}
	if diff := cmp.Diff(want, diags); diff != "" {
		t.Errorf("ParseStrict() diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCRLFAndBOM(t *testing.T) {
	text := "\ufeffWEBVTT\r\n\r\n00:01:00.000 --> 00:01:01.500\r\n<b>Line</b>\r\n"
	cues := Parse(text)

	require.Len(t, cues, 1)
	assert.Equal(t, 60.0, cues[0].Start)
	assert.Equal(t, 61.5, cues[0].End)
	assert.Equal(t, "Line", cues[0].Text)
}

func TestParseEmptyAndHeaderOnly(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("WEBVTT\n\n"))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00:00.000", 0},
		{"00:00:02.500", 2.5},
		{"00:01:02,250", 62.25},
		{"01:00:00.000", 3600},
		{"10:20:30.750", 10*3600 + 20*60 + 30.75},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTime(tt.in))
		})
	}
}

func TestGeneratedEnglishRoundTrip(t *testing.T) {
	doc, ok := Generate("English")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(doc, "WEBVTT\n\n"))

	cues := Parse(doc)
	require.Len(t, cues, 170)
	assert.Equal(t, 17, TemplateSize("english"))

	for i := 1; i < len(cues); i++ {
		assert.LessOrEqual(t, cues[i-1].Start, cues[i].Start, "cue %d starts before cue %d", i, i-1)
	}

	for i, cue := range cues {
		assert.LessOrEqual(t, cue.Start, cue.End)

		tile := i / 17
		if tile == 0 {
			assert.False(t, strings.HasSuffix(cue.Text, ")"), "first tile must not carry a counter: %q", cue.Text)
			continue
		}
		suffix := fmt.Sprintf(" (%d)", tile+1)
		assert.True(t, strings.HasSuffix(cue.Text, suffix), "cue %d text %q should end with %q", i, cue.Text, suffix)
	}

	assert.Equal(t, 2.0, cues[0].Start)
	assert.Equal(t, "The wind carries the sound of the sea.", cues[2].Text)
	assert.Equal(t, 62.0, cues[17].Start)
	assert.Equal(t, "Welcome to StreamTV. (2)", cues[17].Text)
	assert.Less(t, cues[len(cues)-1].End, 600.0)
}

func TestGeneratedArabic(t *testing.T) {
	doc, ok := Generate("arabic")
	require.True(t, ok)

	cues := Parse(doc)
	assert.Len(t, cues, TemplateSize("Arabic")*TileCount)
	assert.True(t, strings.HasSuffix(cues[len(cues)-1].Text, " (10)"))
}

func TestGenerateUnknownLanguage(t *testing.T) {
	_, ok := Generate("French")
	assert.False(t, ok)
	assert.False(t, HasGenerated("French"))
	assert.True(t, HasGenerated("ENGLISH"))
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.000"},
		{2, "00:00:02.000"},
		{62.5, "00:01:02.500"},
		{3661.75, "01:01:01.750"},
		{59.9999, "00:00:59.999"},
		{-1, "00:00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestCurrentCue(t *testing.T) {
	doc, _ := Generate("English")
	cues := Parse(doc)

	tests := []struct {
		name  string
		at    float64
		want  string
		found bool
	}{
		{"before first cue", 1.0, "", false},
		{"inside first cue", 3.0, "Welcome to StreamTV.", true},
		{"on start boundary", 2.0, "Welcome to StreamTV.", true},
		{"on end boundary", 5.0, "Welcome to StreamTV.", true},
		{"gap between cues", 5.25, "", false},
		{"second tile", 63.0, "Welcome to StreamTV. (2)", true},
		{"after last cue", 599.9, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentCue(cues, tt.at)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentCueEmpty(t *testing.T) {
	_, ok := CurrentCue(nil, 10)
	assert.False(t, ok)
}

func TestMalformedLinesDoNotCount(t *testing.T) {
	text := "WEBVTT\n\n00:00:01 --> 00:00:02\nbad\n\n00:00:03.000 --> 00:00:04.000\ngood\n"
	cues, diags := ParseStrict(text)

	require.Len(t, cues, 1)
	assert.Equal(t, "good", cues[0].Text)
	assert.Len(t, diags, 1)
}
