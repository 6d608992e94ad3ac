package subtitle

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// knownLanguages are the tags catalog language labels are matched against
var knownLanguages = []language.Tag{
	language.English,
	language.Arabic,
	language.French,
	language.Spanish,
	language.German,
	language.Italian,
	language.Portuguese,
	language.Russian,
	language.Turkish,
	language.Hindi,
	language.Japanese,
	language.Korean,
	language.Chinese,
	language.Dutch,
}

// LanguageTag resolves an English display label ("English", "arabic") or a
// BCP 47 code to a tag. Unknown labels resolve to language.Und.
func LanguageTag(label string) language.Tag {
	label = strings.TrimSpace(label)
	namer := display.English.Tags()
	for _, tag := range knownLanguages {
		if strings.EqualFold(namer.Name(tag), label) {
			return tag
		}
	}

	if tag, err := language.Parse(label); err == nil {
		return tag
	}
	return language.Und
}

// LanguageCode returns the BCP 47 code for a display label
func LanguageCode(label string) string {
	return LanguageTag(label).String()
}

// NativeLabel returns the language's name in its own script, falling back
// to the label itself.
func NativeLabel(label string) string {
	tag := LanguageTag(label)
	if tag == language.Und {
		return label
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return label
}
