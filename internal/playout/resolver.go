// Package playout resolves a content id and device capabilities into a
// playable descriptor: protocol, DRM configuration, media URL, markers and
// track lists.
package playout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// Catalog looks up content records by id
type Catalog interface {
	Get(id int) (*models.ContentEntity, bool)
}

// Config holds the base URLs used to build playout descriptors
type Config struct {
	CDNBaseURL              string
	DRMBaseURL              string
	FairplayCertificateURL  string
	AdServerURL             string
	SubtitleFallbackBaseURL string
}

// Resolver builds playout descriptors. It holds no per-request state and is
// safe for concurrent use.
type Resolver struct {
	catalog   Catalog
	cfg       Config
	now       func() time.Time
	subtitles *subtitleSource
}

// NewResolver creates a resolver over catalog
func NewResolver(catalog Catalog, cfg Config) *Resolver {
	cfg.CDNBaseURL = strings.TrimRight(cfg.CDNBaseURL, "/")
	cfg.DRMBaseURL = strings.TrimRight(cfg.DRMBaseURL, "/")
	cfg.SubtitleFallbackBaseURL = strings.TrimRight(cfg.SubtitleFallbackBaseURL, "/")

	return &Resolver{
		catalog:   catalog,
		cfg:       cfg,
		now:       time.Now,
		subtitles: newSubtitleSource(cfg.SubtitleFallbackBaseURL),
	}
}

// WithClock replaces the clock used for DRM key ids
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve produces a fresh descriptor for req. Unknown ids fail with an
// error matching models.ErrContentNotFound.
func (r *Resolver) Resolve(ctx context.Context, req models.PlayoutRequest) (*models.PlayoutDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content, ok := r.catalog.Get(req.ContentID)
	if !ok {
		return nil, models.ContentNotFound(req.ContentID)
	}

	protocol := SelectProtocol(req)
	protected := content.DRM && req.DRMSchema == models.NativeScheme(protocol)

	desc := &models.PlayoutDescriptor{
		ContentID:         content.ID,
		Duration:          content.DurationInSeconds,
		DRM:               protected,
		StreamingProtocol: protocol,
		Markers:           BuildMarkers(content),
		URL:               r.mediaURL(content.ID, protocol, protected),
		QualityLevels:     models.QualityLadder(),
		AudioTracks:       BuildAudioTracks(content.AvailableLanguages),
		SubtitleTracks:    r.subtitles.tracks(content),
		Chapters:          BuildChapters(content.DurationInSeconds),
		Advertising:       r.buildAdvertising(content),
		Thumbnails:        r.thumbnails(content.ID),
	}

	if protected {
		desc.DRMConfig = r.drmConfig(models.NativeScheme(protocol), content.ID)
	}

	return desc, nil
}

// SelectProtocol picks the protocol family by device affinity: Apple
// devices get HLS, an explicit Smooth Streaming request is honoured,
// everything else gets DASH.
func SelectProtocol(req models.PlayoutRequest) models.StreamingProtocol {
	if req.DeviceType == models.DeviceTypeTVOS || strings.EqualFold(req.Platform, models.PlatformIOS) {
		return models.StreamingProtocolHLS
	}
	if req.StreamingProtocol == models.StreamingProtocolSmooth {
		return models.StreamingProtocolSmooth
	}
	return models.StreamingProtocolDASH
}

func (r *Resolver) mediaURL(id int, protocol models.StreamingProtocol, protected bool) string {
	var family, variant, manifest string
	switch protocol {
	case models.StreamingProtocolHLS:
		family, manifest = "hls", "master.m3u8"
	case models.StreamingProtocolSmooth:
		family, manifest = "smooth", "Manifest"
	default:
		family, manifest = "dash", "manifest.mpd"
	}
	if protected {
		variant = "/" + string(models.NativeScheme(protocol))
	}
	return fmt.Sprintf("%s/%s%s/%d/%s", r.cfg.CDNBaseURL, family, variant, id, manifest)
}

var keyPrefixes = map[models.DRMScheme]string{
	models.DRMSchemeFairPlay:  "fps",
	models.DRMSchemeWidevine:  "wv",
	models.DRMSchemePlayReady: "pr",
}

// drmConfig builds the scheme's variant. Key ids embed the generation time,
// so two calls for the same content yield different ids.
func (r *Resolver) drmConfig(scheme models.DRMScheme, id int) models.DRMConfig {
	license := fmt.Sprintf("%s/%s/license/%d", r.cfg.DRMBaseURL, scheme, id)
	keyID := fmt.Sprintf("%s_key_%d_%d", keyPrefixes[scheme], id, r.now().UnixMilli())

	switch scheme {
	case models.DRMSchemeFairPlay:
		return models.FairPlayConfig{
			LicenseURL:     license,
			CertificateURL: r.cfg.FairplayCertificateURL,
			KeyID:          keyID,
		}
	case models.DRMSchemePlayReady:
		return models.PlayReadyConfig{LicenseURL: license, KeyID: keyID}
	default:
		return models.WidevineConfig{LicenseURL: license, KeyID: keyID}
	}
}

func (r *Resolver) thumbnails(id int) *models.ThumbnailPreview {
	return &models.ThumbnailPreview{
		SpriteURL: fmt.Sprintf("%s/thumbnails/%d/sprite.jpg", r.cfg.CDNBaseURL, id),
		Interval:  10,
		Width:     160,
		Height:    90,
		Columns:   10,
	}
}
