package models

import "encoding/json"

// DRMScheme names a content-protection technology
type DRMScheme string

// DRMScheme constants
const (
	DRMSchemeFairPlay  DRMScheme = "fairplay"
	DRMSchemeWidevine  DRMScheme = "widevine"
	DRMSchemePlayReady DRMScheme = "playready"
)

// DRMConfig is implemented by exactly one struct per scheme; only the
// FairPlay variant carries a certificate URL.
type DRMConfig interface {
	Scheme() DRMScheme
	License() string
	Key() string
	drmConfig()
}

// FairPlayConfig configures Apple FairPlay protected HLS
type FairPlayConfig struct {
	LicenseURL     string `json:"licenseUrl"`
	CertificateURL string `json:"certificateUrl"`
	KeyID          string `json:"keyId"`
}

// WidevineConfig configures Widevine protected DASH
type WidevineConfig struct {
	LicenseURL string `json:"licenseUrl"`
	KeyID      string `json:"keyId"`
}

// PlayReadyConfig configures PlayReady protected Smooth Streaming
type PlayReadyConfig struct {
	LicenseURL string `json:"licenseUrl"`
	KeyID      string `json:"keyId"`
}

func (FairPlayConfig) Scheme() DRMScheme  { return DRMSchemeFairPlay }
func (WidevineConfig) Scheme() DRMScheme  { return DRMSchemeWidevine }
func (PlayReadyConfig) Scheme() DRMScheme { return DRMSchemePlayReady }

func (c FairPlayConfig) License() string  { return c.LicenseURL }
func (c WidevineConfig) License() string  { return c.LicenseURL }
func (c PlayReadyConfig) License() string { return c.LicenseURL }

func (c FairPlayConfig) Key() string  { return c.KeyID }
func (c WidevineConfig) Key() string  { return c.KeyID }
func (c PlayReadyConfig) Key() string { return c.KeyID }

func (FairPlayConfig) drmConfig()  {}
func (WidevineConfig) drmConfig()  {}
func (PlayReadyConfig) drmConfig() {}

// MarshalJSON adds the scheme tag
func (c FairPlayConfig) MarshalJSON() ([]byte, error) {
	type alias FairPlayConfig
	return json.Marshal(struct {
		Scheme DRMScheme `json:"scheme"`
		alias
	}{DRMSchemeFairPlay, alias(c)})
}

// MarshalJSON adds the scheme tag
func (c WidevineConfig) MarshalJSON() ([]byte, error) {
	type alias WidevineConfig
	return json.Marshal(struct {
		Scheme DRMScheme `json:"scheme"`
		alias
	}{DRMSchemeWidevine, alias(c)})
}

// MarshalJSON adds the scheme tag
func (c PlayReadyConfig) MarshalJSON() ([]byte, error) {
	type alias PlayReadyConfig
	return json.Marshal(struct {
		Scheme DRMScheme `json:"scheme"`
		alias
	}{DRMSchemePlayReady, alias(c)})
}

// NativeScheme returns the DRM scheme tied to a protocol family
func NativeScheme(p StreamingProtocol) DRMScheme {
	switch p {
	case StreamingProtocolHLS:
		return DRMSchemeFairPlay
	case StreamingProtocolSmooth:
		return DRMSchemePlayReady
	default:
		return DRMSchemeWidevine
	}
}
