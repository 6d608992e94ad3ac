package subtitle

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DataURLPrefix is the only data URL form the loader decodes. Any other
// media type or charset is rejected as a non-http(s) URL.
const DataURLPrefix = "data:text/vtt;charset=utf-8,"

// ErrInvalidDataURL is returned when a VTT data URL cannot be decoded
var ErrInvalidDataURL = errors.New("invalid subtitle data URL")

// DataURL wraps VTT text in a self-contained, percent-encoded data URL
func DataURL(vtt string) string {
	return DataURLPrefix + url.PathEscape(vtt)
}

// IsDataURL reports whether u uses the exact VTT data URL form
func IsDataURL(u string) bool {
	return strings.HasPrefix(u, DataURLPrefix)
}

// DecodeDataURL returns the VTT text carried by a data URL
func DecodeDataURL(u string) (string, error) {
	if !IsDataURL(u) {
		return "", fmt.Errorf("%w: missing %q prefix", ErrInvalidDataURL, DataURLPrefix)
	}

	text, err := url.PathUnescape(strings.TrimPrefix(u, DataURLPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return text, nil
}
