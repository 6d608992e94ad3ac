// Package service implements the mock streaming backend: catalog browsing,
// my list, watch progress, playout resolution, preferences and subtitle
// loading. Every operation waits out the configured artificial latency
// before doing any work.
package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/streamtv/internal/cache"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/catalog"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/config"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/logging"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/metrics"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/playout"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/subtitle"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/tracing"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// Service is the backend facade used by the HTTP handlers
type Service struct {
	latency  time.Duration
	driver   string
	catalog  *catalog.Catalog
	store    cache.Store
	resolver *playout.Resolver
	loader   *subtitle.Loader
	logger   *logging.Logger
	now      func() time.Time
}

// New wires a service from its collaborators
func New(cfg *config.Config, cat *catalog.Catalog, store cache.Store, resolver *playout.Resolver, logger *logging.Logger) *Service {
	return &Service{
		latency:  cfg.Mock.Latency,
		driver:   cfg.Store.Driver,
		catalog:  cat,
		store:    store,
		resolver: resolver,
		loader:   subtitle.NewLoader(cfg.Subtitles.FetchTimeout, cfg.Subtitles.MaxBytes).AllowHosts(cfg.Subtitles.AllowedHosts...),
		logger:   logger,
		now:      time.Now,
	}
}

// WithLoader replaces the subtitle loader
func (s *Service) WithLoader(loader *subtitle.Loader) *Service {
	s.loader = loader
	return s
}

// WithClock replaces the clock used for progress timestamps
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Catalog exposes the underlying catalog
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// wait blocks for the artificial latency or until ctx is done
func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// observe records a store call in metrics and the log
func (s *Service) observe(operation string, start time.Time, err error) {
	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
		metrics.RecordError("store", operation)
	}
	metrics.RecordStoreOperation(s.driver, operation, status, duration.Seconds())
	s.logger.LogStoreOperation(operation, duration, err)
}

func (s *Service) content(id int) (*models.ContentEntity, error) {
	item, ok := s.catalog.Get(id)
	if !ok {
		return nil, models.ContentNotFound(id)
	}
	return item, nil
}

// Homepage assembles the hero, the personal rails and the catalog rails
func (s *Service) Homepage(ctx context.Context) (*models.Homepage, error) {
	span, ctx := tracing.StartSpan(ctx, "service.Homepage")
	defer tracing.FinishSpan(span)

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	home := &models.Homepage{
		Hero:  s.catalog.Featured(),
		Rails: []models.Rail{},
	}

	watching, err := s.continueWatching(ctx)
	if err != nil {
		tracing.LogError(span, err)
		return nil, err
	}
	if len(watching) > 0 {
		items := make([]*models.ContentEntity, 0, len(watching))
		for _, w := range watching {
			items = append(items, w.Content)
		}
		home.Rails = append(home.Rails, models.Rail{ID: "continue-watching", Title: "Continue Watching", Items: items})
	}

	myList, err := s.myList(ctx)
	if err != nil {
		tracing.LogError(span, err)
		return nil, err
	}
	if len(myList) > 0 {
		home.Rails = append(home.Rails, models.Rail{ID: "my-list", Title: "My List", Items: myList})
	}

	home.Rails = append(home.Rails, s.catalog.Rails()...)
	return home, nil
}

// Search returns catalog records matching query
func (s *Service) Search(ctx context.Context, query string) ([]*models.ContentEntity, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.catalog.Search(query), nil
}

// Browse returns a filtered page of the catalog
func (s *Service) Browse(ctx context.Context, filter catalog.BrowseFilter) (*models.Page, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.catalog.Browse(filter)
}

// Content returns a single record
func (s *Service) Content(ctx context.Context, id int) (*models.ContentEntity, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.content(id)
}

// MyList returns the saved records, most recently added first
func (s *Service) MyList(ctx context.Context) ([]*models.ContentEntity, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.myList(ctx)
}

func (s *Service) myList(ctx context.Context) ([]*models.ContentEntity, error) {
	start := time.Now()
	ids, err := s.store.MyList(ctx)
	s.observe("mylist_list", start, err)
	if err != nil {
		return nil, err
	}

	items := make([]*models.ContentEntity, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.catalog.Get(id); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// AddToMyList saves a record. Adding twice is a no-op.
func (s *Service) AddToMyList(ctx context.Context, id int) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if _, err := s.content(id); err != nil {
		return err
	}

	start := time.Now()
	err := s.store.AddToMyList(ctx, id)
	s.observe("mylist_add", start, err)
	if err != nil {
		return err
	}

	metrics.RecordMyListOperation("add")
	return nil
}

// RemoveFromMyList drops a record. Removing an absent record is a no-op.
func (s *Service) RemoveFromMyList(ctx context.Context, id int) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if _, err := s.content(id); err != nil {
		return err
	}

	start := time.Now()
	err := s.store.RemoveFromMyList(ctx, id)
	s.observe("mylist_remove", start, err)
	if err != nil {
		return err
	}

	metrics.RecordMyListOperation("remove")
	return nil
}

// IsInMyList reports whether a record is saved
func (s *Service) IsInMyList(ctx context.Context, id int) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	if _, err := s.content(id); err != nil {
		return false, err
	}

	start := time.Now()
	in, err := s.store.InMyList(ctx, id)
	s.observe("mylist_check", start, err)
	return in, err
}

// ContinueWatching returns unfinished records, most recently watched first
func (s *Service) ContinueWatching(ctx context.Context) ([]models.ContinueWatchingItem, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.continueWatching(ctx)
}

func (s *Service) continueWatching(ctx context.Context) ([]models.ContinueWatchingItem, error) {
	start := time.Now()
	records, err := s.store.ListProgress(ctx)
	s.observe("progress_list", start, err)
	if err != nil {
		return nil, err
	}

	items := make([]models.ContinueWatchingItem, 0, len(records))
	for _, p := range records {
		if p.Completed {
			continue
		}
		item, ok := s.catalog.Get(p.ContentID)
		if !ok {
			continue
		}
		items = append(items, models.ContinueWatchingItem{Content: item, Progress: p})
	}
	return items, nil
}

// Heartbeat records the playback position of a record, replacing any
// earlier position. Elapsed time past the end is clamped to the duration.
func (s *Service) Heartbeat(ctx context.Context, id int, elapsed float64) (*models.WatchProgress, error) {
	span, ctx := tracing.StartSpan(ctx, "service.Heartbeat")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "content.id", id)

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if elapsed < 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return nil, models.InvalidRequest("elapsedSeconds must be a non-negative number")
	}

	item, err := s.content(id)
	if err != nil {
		return nil, err
	}

	if limit := float64(item.DurationInSeconds); elapsed > limit {
		elapsed = limit
	}

	progress := models.WatchProgress{
		ContentID:      id,
		ElapsedSeconds: elapsed,
		LastWatched:    s.now().UTC(),
		Completed:      models.IsCompleted(elapsed, item.DurationInSeconds),
	}

	start := time.Now()
	err = s.store.SaveProgress(ctx, progress)
	s.observe("progress_save", start, err)
	if err != nil {
		tracing.LogError(span, err)
		return nil, err
	}

	metrics.RecordHeartbeat(progress.Completed)
	s.logger.LogHeartbeat(id, elapsed, progress.Completed)
	return &progress, nil
}

// Playout resolves a playable descriptor for req
func (s *Service) Playout(ctx context.Context, req models.PlayoutRequest) (*models.PlayoutDescriptor, error) {
	span, ctx := tracing.StartSpan(ctx, "service.Playout")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "content.id", req.ContentID)
	tracing.SetTag(span, "device.type", string(req.DeviceType))

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	desc, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		tracing.LogError(span, err)
		metrics.RecordPlayoutFailure(failureReason(err))
		s.logger.LogPlayout(req.ContentID, string(req.StreamingProtocol), string(req.DRMSchema), string(req.DeviceType), err)
		return nil, err
	}

	scheme := ""
	if desc.DRMConfig != nil {
		scheme = string(desc.DRMConfig.Scheme())
	}
	tracing.SetTag(span, "playout.protocol", string(desc.StreamingProtocol))
	tracing.SetTag(span, "playout.drm", desc.DRM)

	metrics.RecordPlayout(string(desc.StreamingProtocol), desc.DRM, string(req.DeviceType))
	s.logger.LogPlayout(desc.ContentID, string(desc.StreamingProtocol), scheme, string(req.DeviceType), nil)
	return desc, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrContentNotFound):
		return "not_found"
	case errors.Is(err, models.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

// Preference returns a stored UI preference
func (s *Service) Preference(ctx context.Context, key string) (string, bool, error) {
	if err := s.wait(ctx); err != nil {
		return "", false, err
	}
	if key == "" {
		return "", false, models.InvalidRequest("preference key is required")
	}

	start := time.Now()
	v, ok, err := s.store.Preference(ctx, key)
	s.observe("preference_get", start, err)
	return v, ok, err
}

// SetPreference stores a UI preference. layoutDirection only accepts ltr
// and rtl.
func (s *Service) SetPreference(ctx context.Context, key, value string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if key == "" {
		return models.InvalidRequest("preference key is required")
	}
	if key == PreferenceLayoutDirection && value != LayoutLTR && value != LayoutRTL {
		return models.InvalidRequest("layoutDirection must be %q or %q", LayoutLTR, LayoutRTL)
	}

	start := time.Now()
	err := s.store.SetPreference(ctx, key, value)
	s.observe("preference_set", start, err)
	return err
}

// Preference keys and values
const (
	PreferenceLayoutDirection = "layoutDirection"
	LayoutLTR                 = "ltr"
	LayoutRTL                 = "rtl"
)

// LoadSubtitles fetches and parses a WebVTT document from a data or network
// URL. Failures are returned so callers can fall back to no subtitles.
func (s *Service) LoadSubtitles(ctx context.Context, url string, strict bool) (*subtitle.Result, error) {
	span, ctx := tracing.StartSpan(ctx, "service.LoadSubtitles")
	defer tracing.FinishSpan(span)

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, models.InvalidRequest("url is required")
	}

	source := subtitle.SourceOf(url)
	tracing.SetTag(span, "subtitle.source", source)

	start := time.Now()
	result, err := s.loader.LoadResult(ctx, url, strict)
	duration := time.Since(start)

	if err != nil {
		tracing.LogError(span, err)
		metrics.RecordSubtitleLoad(source, "error", duration.Seconds(), 0)
		metrics.RecordError("subtitle", subtitleErrorType(err))
		s.logger.LogSubtitleLoad(source, 0, 0, duration, err)
		return nil, err
	}

	metrics.RecordSubtitleLoad(source, "success", duration.Seconds(), len(result.Cues))
	s.logger.LogSubtitleLoad(source, len(result.Cues), len(result.Diagnostics), duration, nil)
	return result, nil
}

func subtitleErrorType(err error) string {
	switch {
	case errors.Is(err, subtitle.ErrInvalidDataURL):
		return "invalid_data_url"
	case errors.Is(err, subtitle.ErrNetworkFailure):
		return "network_failure"
	case errors.Is(err, subtitle.ErrURLNotAllowed):
		return "url_not_allowed"
	default:
		return "other"
	}
}

// SubtitleDocument returns the generated WebVTT document for one of a
// record's languages. lang may be a label ("English") or a code ("en").
func (s *Service) SubtitleDocument(ctx context.Context, id int, lang string) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	item, err := s.content(id)
	if err != nil {
		return "", err
	}

	for _, available := range item.AvailableLanguages {
		if !strings.EqualFold(available, lang) && subtitle.LanguageCode(available) != strings.ToLower(lang) {
			continue
		}
		if doc, ok := subtitle.Generate(available); ok {
			return doc, nil
		}
		break
	}
	return "", &models.APIError{
		Code:    models.ErrCodeContentNotFound,
		Message: "no generated subtitles for language " + lang,
	}
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
