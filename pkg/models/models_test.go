package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestQualityLadderDescending(t *testing.T) {
	ladder := QualityLadder()
	if len(ladder) != 4 {
		t.Fatalf("Expected 4 quality levels, got %d", len(ladder))
	}

	for i := 1; i < len(ladder); i++ {
		if ladder[i].Bitrate >= ladder[i-1].Bitrate {
			t.Errorf("Expected descending bitrate at %d: %d >= %d", i, ladder[i].Bitrate, ladder[i-1].Bitrate)
		}
	}

	if q := GetQualityLevel("720p"); q == nil || q.Height != 720 {
		t.Errorf("Expected 720p level, got %+v", q)
	}
	if q := GetQualityLevel("4K"); q != nil {
		t.Errorf("Expected nil for unknown level, got %+v", q)
	}
}

func TestDRMConfigJSON(t *testing.T) {
	cfg := FairPlayConfig{
		LicenseURL:     "https://drm.example.com/fairplay/license/1",
		CertificateURL: "https://drm.example.com/fairplay/certificate",
		KeyID:          "fps_key_1_1000",
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if raw["scheme"] != "fairplay" {
		t.Errorf("Expected scheme fairplay, got %v", raw["scheme"])
	}
	if raw["certificateUrl"] != cfg.CertificateURL {
		t.Errorf("Expected certificateUrl, got %v", raw["certificateUrl"])
	}

	wv, err := json.Marshal(WidevineConfig{LicenseURL: "l", KeyID: "k"})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	raw = map[string]interface{}{}
	if err := json.Unmarshal(wv, &raw); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, ok := raw["certificateUrl"]; ok {
		t.Error("Widevine config must not carry a certificate URL")
	}
}

func TestPlayoutDescriptorRoundTripKeepsVariant(t *testing.T) {
	in := PlayoutDescriptor{
		ContentID: 7,
		Duration:  100,
		DRM:       true,
		DRMConfig: PlayReadyConfig{LicenseURL: "https://drm/playready/license/7", KeyID: "pr_key_7_1"},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var out PlayoutDescriptor
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	pr, ok := out.DRMConfig.(PlayReadyConfig)
	if !ok {
		t.Fatalf("Expected PlayReadyConfig, got %T", out.DRMConfig)
	}
	if pr.KeyID != "pr_key_7_1" {
		t.Errorf("Expected key id to survive, got %s", pr.KeyID)
	}

	clearDesc := PlayoutDescriptor{ContentID: 8, Duration: 10}
	data, _ = json.Marshal(clearDesc)
	out = PlayoutDescriptor{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if out.DRMConfig != nil {
		t.Errorf("Expected nil DRM config, got %T", out.DRMConfig)
	}
}

func TestUnmarshalDRMConfigUnknownScheme(t *testing.T) {
	if _, err := UnmarshalDRMConfig([]byte(`{"scheme":"clearkey"}`)); err == nil {
		t.Error("Expected error for unknown scheme")
	}
}

func TestNativeScheme(t *testing.T) {
	tests := []struct {
		protocol StreamingProtocol
		expected DRMScheme
	}{
		{StreamingProtocolHLS, DRMSchemeFairPlay},
		{StreamingProtocolDASH, DRMSchemeWidevine},
		{StreamingProtocolSmooth, DRMSchemePlayReady},
	}

	for _, tt := range tests {
		t.Run(string(tt.protocol), func(t *testing.T) {
			if got := NativeScheme(tt.protocol); got != tt.expected {
				t.Errorf("NativeScheme(%s) = %s, want %s", tt.protocol, got, tt.expected)
			}
		})
	}
}

func TestPlayoutRequestValidate(t *testing.T) {
	valid := PlayoutRequest{ContentID: 1, DRMSchema: DRMSchemeWidevine, DeviceType: DeviceTypeAndroid}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid request, got %v", err)
	}

	invalid := PlayoutRequest{ContentID: 1, DeviceType: "toaster"}
	err := invalid.Validate()
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
}

func TestAPIErrorIs(t *testing.T) {
	err := fmt.Errorf("resolve: %w", ContentNotFound(42))
	if !errors.Is(err, ErrContentNotFound) {
		t.Error("Expected wrapped not-found error to match sentinel")
	}
	if errors.Is(err, ErrInvalidRequest) {
		t.Error("Did not expect not-found error to match invalid request")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "content with id 42 not found" {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}
}

func TestIsCompleted(t *testing.T) {
	tests := []struct {
		elapsed  float64
		duration int
		expected bool
	}{
		{0, 100, false},
		{89.9, 100, false},
		{90, 100, true},
		{100, 100, true},
		{10, 0, false},
	}

	for _, tt := range tests {
		if got := IsCompleted(tt.elapsed, tt.duration); got != tt.expected {
			t.Errorf("IsCompleted(%v, %d) = %v, want %v", tt.elapsed, tt.duration, got, tt.expected)
		}
	}
}

func TestContentTypeValid(t *testing.T) {
	for _, ct := range []ContentType{ContentTypeMovie, ContentTypeShow, ContentTypeEpisode, ContentTypeLive, ContentTypeSerialized} {
		if !ct.Valid() {
			t.Errorf("Expected %s to be valid", ct)
		}
	}
	if ContentType("podcast").Valid() {
		t.Error("Expected podcast to be invalid")
	}
}
