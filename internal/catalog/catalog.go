// Package catalog holds the mock content catalog. Records are generated
// once from a seed and never change afterwards, so a Catalog can be shared
// across goroutines without locking.
package catalog

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

const imageBaseURL = "https://images.streamtv.example.com"

// Paging limits for Browse
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	railSize        = 12
)

var typeCycle = []models.ContentType{
	models.ContentTypeMovie,
	models.ContentTypeShow,
	models.ContentTypeEpisode,
	models.ContentTypeSerialized,
	models.ContentTypeLive,
}

type durationRange struct{ min, max int }

var durations = map[models.ContentType]durationRange{
	models.ContentTypeMovie:      {5400, 9000},
	models.ContentTypeShow:       {1200, 3600},
	models.ContentTypeSerialized: {1200, 3600},
	models.ContentTypeEpisode:    {1200, 2700},
	models.ContentTypeLive:       {3600, 10800},
}

var (
	adjectives = []string{"Silent", "Crimson", "Hidden", "Golden", "Broken", "Distant", "Last", "Midnight", "Frozen", "Wild", "Iron", "Desert"}
	nouns      = []string{"Harbor", "Kingdom", "Signal", "Horizon", "Garden", "Empire", "River", "Frontier", "Archive", "Voyage", "Tide", "Citadel"}
	tagPool    = []string{"drama", "action", "comedy", "thriller", "documentary", "family", "sci-fi", "romance", "crime", "sports"}
	castPool   = []string{"Layla Haddad", "Omar Nasser", "Mia Chen", "Lucas Moreau", "Sofia Alvarez", "Kenji Sato", "Amara Okafor", "Noah Fischer", "Priya Raman", "Yusuf Karim"}
	extraLangs = []string{"Arabic", "French", "Spanish", "German", "Japanese", "Hindi"}
	ratings    = []string{"G", "PG", "PG-13", "R", "TV-14", "TV-MA"}
)

// BrowseFilter narrows a catalog listing. Zero values mean "any" for Type
// and Tag and the defaults for paging.
type BrowseFilter struct {
	Type     models.ContentType
	Tag      string
	Page     int
	PageSize int
}

// Catalog is an immutable, ordered set of content records
type Catalog struct {
	items []*models.ContentEntity
	byID  map[int]*models.ContentEntity
}

// Generate builds a catalog of size records from seed. The same seed and
// size always produce the same records.
func Generate(seed int64, size int) *Catalog {
	rng := rand.New(rand.NewSource(seed))

	c := &Catalog{
		items: make([]*models.ContentEntity, 0, size),
		byID:  make(map[int]*models.ContentEntity, size),
	}

	for i := 0; i < size; i++ {
		item := generateItem(rng, i)
		c.items = append(c.items, item)
		c.byID[item.ID] = item
	}

	return c
}

func generateItem(rng *rand.Rand, i int) *models.ContentEntity {
	id := i + 1
	contentType := typeCycle[i%len(typeCycle)]
	dr := durations[contentType]

	title := fmt.Sprintf("The %s %s", adjectives[rng.Intn(len(adjectives))], nouns[rng.Intn(len(nouns))])
	if contentType == models.ContentTypeEpisode {
		title = fmt.Sprintf("%s S%dE%d", title, rng.Intn(5)+1, rng.Intn(12)+1)
	}

	tags := pick(rng, tagPool, 1+rng.Intn(3))
	if contentType == models.ContentTypeLive {
		tags = append(tags, "live")
	}

	languages := append([]string{"English"}, pick(rng, extraLangs, rng.Intn(4))...)

	return &models.ContentEntity{
		ID:          id,
		Title:       title,
		Description: fmt.Sprintf("A %s %s about %s.", tags[0], contentType, strings.ToLower(nouns[rng.Intn(len(nouns))])),
		Images: models.ContentImages{
			Poster:    fmt.Sprintf("%s/%d/poster.jpg", imageBaseURL, id),
			Backdrop:  fmt.Sprintf("%s/%d/backdrop.jpg", imageBaseURL, id),
			Thumbnail: fmt.Sprintf("%s/%d/thumbnail.jpg", imageBaseURL, id),
		},
		Type:               contentType,
		DurationInSeconds:  dr.min + rng.Intn(dr.max-dr.min+1),
		Cast:               pick(rng, castPool, 2+rng.Intn(3)),
		AvailableLanguages: languages,
		ContentRating:      ratings[rng.Intn(len(ratings))],
		Tags:               tags,
		DRM:                i%2 == 1,
		ReleaseYear:        1995 + rng.Intn(31),
		Rating:             float64(50+rng.Intn(50)) / 10,
	}
}

// pick returns n distinct entries from pool in a seeded order
func pick(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, idx := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}

// Get returns the record with id
func (c *Catalog) Get(id int) (*models.ContentEntity, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.items)
}

// All returns every record in id order
func (c *Catalog) All() []*models.ContentEntity {
	out := make([]*models.ContentEntity, len(c.items))
	copy(out, c.items)
	return out
}

// Search matches query case-insensitively against title, description, cast
// and tags. An empty query matches nothing.
func (c *Catalog) Search(query string) []*models.ContentEntity {
	q := strings.ToLower(strings.TrimSpace(query))
	results := []*models.ContentEntity{}
	if q == "" {
		return results
	}

	for _, item := range c.items {
		if matches(item, q) {
			results = append(results, item)
		}
	}
	return results
}

func matches(item *models.ContentEntity, q string) bool {
	if strings.Contains(strings.ToLower(item.Title), q) || strings.Contains(strings.ToLower(item.Description), q) {
		return true
	}
	for _, name := range item.Cast {
		if strings.Contains(strings.ToLower(name), q) {
			return true
		}
	}
	for _, tag := range item.Tags {
		if strings.ToLower(tag) == q {
			return true
		}
	}
	return false
}

// Browse returns one page of records matching filter
func (c *Catalog) Browse(filter BrowseFilter) (*models.Page, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, models.InvalidRequest("unknown content type %q", filter.Type)
	}
	if filter.Page < 0 || filter.PageSize < 0 {
		return nil, models.InvalidRequest("page and pageSize must not be negative")
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	size := filter.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	var matched []*models.ContentEntity
	for _, item := range c.items {
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Tag != "" && !item.HasTag(filter.Tag) {
			continue
		}
		matched = append(matched, item)
	}

	result := &models.Page{
		Items:    []*models.ContentEntity{},
		Page:     page,
		PageSize: size,
		Total:    len(matched),
	}

	pages := (len(matched) + size - 1) / size
	if page-1 >= pages {
		return result, nil
	}
	start := (page - 1) * size
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	result.Items = append(result.Items, matched[start:end]...)
	return result, nil
}

// Featured returns the hero record: the first movie, or the first record
// when the catalog has no movies.
func (c *Catalog) Featured() *models.ContentEntity {
	for _, item := range c.items {
		if item.IsMovie() {
			return item
		}
	}
	if len(c.items) > 0 {
		return c.items[0]
	}
	return nil
}

// Rails returns the catalog-derived homepage rails. Empty rails are omitted.
func (c *Catalog) Rails() []models.Rail {
	trending := c.All()
	sort.SliceStable(trending, func(i, j int) bool { return trending[i].Rating > trending[j].Rating })

	newest := c.All()
	sort.SliceStable(newest, func(i, j int) bool { return newest[i].ReleaseYear > newest[j].ReleaseYear })

	candidates := []models.Rail{
		{ID: "trending", Title: "Trending", Items: limit(trending)},
		{ID: "new-releases", Title: "New Releases", Items: limit(newest)},
		{ID: "movies", Title: "Movies", Items: limit(c.ofType(models.ContentTypeMovie))},
		{ID: "series", Title: "Series", Items: limit(c.ofType(models.ContentTypeShow, models.ContentTypeSerialized, models.ContentTypeEpisode))},
		{ID: "live", Title: "Live", Items: limit(c.ofType(models.ContentTypeLive))},
	}

	rails := make([]models.Rail, 0, len(candidates))
	for _, r := range candidates {
		if len(r.Items) > 0 {
			rails = append(rails, r)
		}
	}
	return rails
}

func (c *Catalog) ofType(types ...models.ContentType) []*models.ContentEntity {
	var out []*models.ContentEntity
	for _, item := range c.items {
		for _, t := range types {
			if item.Type == t {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func limit(items []*models.ContentEntity) []*models.ContentEntity {
	if len(items) > railSize {
		return items[:railSize]
	}
	return items
}
