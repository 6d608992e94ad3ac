package models

import (
	"encoding/json"
	"fmt"
)

// StreamingProtocol is the manifest/segment delivery format
type StreamingProtocol string

// StreamingProtocol constants
const (
	StreamingProtocolHLS    StreamingProtocol = "hls"
	StreamingProtocolDASH   StreamingProtocol = "dash"
	StreamingProtocolSmooth StreamingProtocol = "smoothStreaming"
)

// DeviceType identifies the requesting device family
type DeviceType string

// DeviceType constants
const (
	DeviceTypeTVOS    DeviceType = "tvos"
	DeviceTypeAndroid DeviceType = "android"
	DeviceTypeWeb     DeviceType = "web"
)

// PlatformIOS is the platform sentinel reported by Apple clients
const PlatformIOS = "ios"

// PlayoutRequest carries the content id and the caller's device capabilities
type PlayoutRequest struct {
	ContentID         int               `json:"contentId"`
	DRMSchema         DRMScheme         `json:"drmSchema,omitempty"`
	StreamingProtocol StreamingProtocol `json:"streamingProtocol,omitempty"`
	DeviceType        DeviceType        `json:"deviceType,omitempty"`
	Platform          string            `json:"platform,omitempty"`
}

// Validate checks enumerated fields hold known values
func (r PlayoutRequest) Validate() error {
	switch r.DRMSchema {
	case "", DRMSchemeFairPlay, DRMSchemeWidevine, DRMSchemePlayReady:
	default:
		return InvalidRequest("unsupported drmSchema %q", r.DRMSchema)
	}
	switch r.StreamingProtocol {
	case "", StreamingProtocolHLS, StreamingProtocolDASH, StreamingProtocolSmooth:
	default:
		return InvalidRequest("unsupported streamingProtocol %q", r.StreamingProtocol)
	}
	switch r.DeviceType {
	case "", DeviceTypeTVOS, DeviceTypeAndroid, DeviceTypeWeb:
	default:
		return InvalidRequest("unsupported deviceType %q", r.DeviceType)
	}
	return nil
}

// Markers are the skip-intro and skip-credits windows in seconds
type Markers struct {
	IntroStart  int `json:"introStart"`
	SkipIntro   int `json:"skipIntro"`
	SkipCredits int `json:"skipCredits"`
	CreditsEnd  int `json:"creditsEnd"`
}

// QualityLevel is one rung of the bitrate ladder
type QualityLevel struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bitrate   int64  `json:"bitrate"`
	FrameRate int    `json:"frameRate"`
	Codec     string `json:"codec"`
}

// Chapter is a titled span of the timeline
type Chapter struct {
	Title string `json:"title"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// AdSlot is a single advertising break
type AdSlot struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Duration int    `json:"duration"`
	TagURL   string `json:"tagUrl"`
}

// Advertising describes the ad breaks of a playout
type Advertising struct {
	Enabled  bool     `json:"enabled"`
	Preroll  []AdSlot `json:"preroll"`
	Midroll  []AdSlot `json:"midroll"`
	Postroll []AdSlot `json:"postroll"`
}

// ThumbnailPreview describes the trick-play sprite sheet
type ThumbnailPreview struct {
	SpriteURL string `json:"spriteUrl"`
	Interval  int    `json:"interval"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Columns   int    `json:"columns"`
}

// PlayoutDescriptor is the resolved, playable description of a content item.
// DRMConfig is non-nil if and only if DRM is true.
type PlayoutDescriptor struct {
	ContentID         int               `json:"contentId"`
	Duration          int               `json:"duration"`
	DRM               bool              `json:"drm"`
	DRMConfig         DRMConfig         `json:"drmConfig,omitempty"`
	StreamingProtocol StreamingProtocol `json:"streamingProtocol"`
	Markers           Markers           `json:"markers"`
	URL               string            `json:"url"`
	QualityLevels     []QualityLevel    `json:"qualityLevels"`
	AudioTracks       []AudioTrack      `json:"audioTracks"`
	SubtitleTracks    []SubtitleTrack   `json:"subtitleTracks"`
	Chapters          []Chapter         `json:"chapters"`
	Advertising       Advertising       `json:"advertising"`
	Thumbnails        *ThumbnailPreview `json:"thumbnails,omitempty"`
}

// UnmarshalJSON restores the DRM variant from its scheme tag
func (p *PlayoutDescriptor) UnmarshalJSON(data []byte) error {
	type alias PlayoutDescriptor
	aux := struct {
		*alias
		DRMConfig json.RawMessage `json:"drmConfig,omitempty"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.DRMConfig) == 0 || string(aux.DRMConfig) == "null" {
		p.DRMConfig = nil
		return nil
	}

	cfg, err := UnmarshalDRMConfig(aux.DRMConfig)
	if err != nil {
		return err
	}
	p.DRMConfig = cfg
	return nil
}

// UnmarshalDRMConfig decodes a DRM configuration by its scheme tag
func UnmarshalDRMConfig(data []byte) (DRMConfig, error) {
	var tag struct {
		Scheme DRMScheme `json:"scheme"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("failed to decode drm scheme: %w", err)
	}

	switch tag.Scheme {
	case DRMSchemeFairPlay:
		var c FairPlayConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case DRMSchemeWidevine:
		var c WidevineConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case DRMSchemePlayReady:
		var c PlayReadyConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown drm scheme %q", tag.Scheme)
}
