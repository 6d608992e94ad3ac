package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mssola/useragent"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

const (
	// DeviceTypeHeader lets clients state their device family explicitly
	DeviceTypeHeader = "X-Device-Type"
	// DeviceContextKey is the gin context key holding the detected Device
	DeviceContextKey = "device"
)

// Device is the device family and platform derived from a request
type Device struct {
	Type     models.DeviceType
	Platform string
}

// DetectDevice classifies a User-Agent string. Apple TV clients map to
// tvos; iPhone, iPad and Apple media stacks report the ios platform on the
// web family; Android maps to android; anything else is web.
func DetectDevice(userAgent string) Device {
	if strings.Contains(userAgent, "AppleTV") || strings.Contains(userAgent, "tvOS") {
		return Device{Type: models.DeviceTypeTVOS, Platform: "tvos"}
	}

	ua := useragent.New(userAgent)
	osName := ua.OSInfo().Name

	switch ua.Platform() {
	case "iPhone", "iPad", "iPod", "iPod touch":
		return Device{Type: models.DeviceTypeWeb, Platform: models.PlatformIOS}
	}
	if strings.HasPrefix(osName, "iPhone OS") || strings.Contains(userAgent, "AppleCoreMedia") || strings.Contains(userAgent, "CFNetwork") {
		return Device{Type: models.DeviceTypeWeb, Platform: models.PlatformIOS}
	}

	if osName == "Android" || strings.Contains(ua.OS(), "Android") {
		return Device{Type: models.DeviceTypeAndroid, Platform: "android"}
	}

	return Device{Type: models.DeviceTypeWeb}
}

// DeviceDetection stores the requesting Device in the context. A valid
// X-Device-Type header wins over User-Agent detection.
func DeviceDetection() gin.HandlerFunc {
	return func(c *gin.Context) {
		device := DetectDevice(c.Request.UserAgent())

		switch t := models.DeviceType(strings.ToLower(c.GetHeader(DeviceTypeHeader))); t {
		case models.DeviceTypeTVOS, models.DeviceTypeAndroid, models.DeviceTypeWeb:
			if t != device.Type {
				device = Device{Type: t}
			}
		}

		c.Set(DeviceContextKey, device)
		c.Next()
	}
}

// GetDevice returns the Device stored by DeviceDetection, defaulting to web
func GetDevice(c *gin.Context) Device {
	if v, ok := c.Get(DeviceContextKey); ok {
		if d, ok := v.(Device); ok {
			return d
		}
	}
	return Device{Type: models.DeviceTypeWeb}
}
