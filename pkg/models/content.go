package models

// ContentType tags a catalog record
type ContentType string

// ContentType constants
const (
	ContentTypeMovie      ContentType = "movie"
	ContentTypeShow       ContentType = "show"
	ContentTypeEpisode    ContentType = "episode"
	ContentTypeLive       ContentType = "live"
	ContentTypeSerialized ContentType = "serialized"
)

// Valid reports whether t is one of the known content types
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeMovie, ContentTypeShow, ContentTypeEpisode, ContentTypeLive, ContentTypeSerialized:
		return true
	}
	return false
}

// ContentImages holds artwork URLs for a catalog record
type ContentImages struct {
	Poster    string `json:"poster"`
	Backdrop  string `json:"backdrop"`
	Thumbnail string `json:"thumbnail"`
}

// ContentEntity represents a catalog record. Records are immutable once generated.
type ContentEntity struct {
	ID                 int           `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	Images             ContentImages `json:"images"`
	Type               ContentType   `json:"type"`
	DurationInSeconds  int           `json:"durationInSeconds"`
	Cast               []string      `json:"cast"`
	AvailableLanguages []string      `json:"availableLanguages"`
	ContentRating      string        `json:"contentRating"`
	Tags               []string      `json:"tags"`
	DRM                bool          `json:"drm"`
	ReleaseYear        int           `json:"releaseYear"`
	Rating             float64       `json:"rating"`
}

// IsMovie reports whether the record is a movie
func (c *ContentEntity) IsMovie() bool {
	return c.Type == ContentTypeMovie
}

// HasTag reports whether the record carries tag (case sensitive)
func (c *ContentEntity) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Rail is a named, ordered row of content on the homepage
type Rail struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Items []*ContentEntity `json:"items"`
}

// Homepage is the aggregated landing screen payload
type Homepage struct {
	Hero  *ContentEntity `json:"hero"`
	Rails []Rail         `json:"rails"`
}

// Page is a slice of a filtered catalog listing
type Page struct {
	Items    []*ContentEntity `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int              `json:"total"`
}
