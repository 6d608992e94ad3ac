package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/logging"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

const (
	uaAppleTV = "AppleTV11,1/11.1"
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaAndroid = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaPlayer  = "AppleCoreMedia/1.0.0.21A329 (iPhone; U; CPU OS 17_0 like Mac OS X; en_us)"
)

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want Device
	}{
		{"apple tv", uaAppleTV, Device{Type: models.DeviceTypeTVOS, Platform: "tvos"}},
		{"iphone safari", uaIPhone, Device{Type: models.DeviceTypeWeb, Platform: models.PlatformIOS}},
		{"apple media stack", uaPlayer, Device{Type: models.DeviceTypeWeb, Platform: models.PlatformIOS}},
		{"android chrome", uaAndroid, Device{Type: models.DeviceTypeAndroid, Platform: "android"}},
		{"desktop chrome", uaDesktop, Device{Type: models.DeviceTypeWeb}},
		{"empty", "", Device{Type: models.DeviceTypeWeb}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDevice(tt.ua))
		})
	}
}

func deviceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(DeviceDetection())
	router.GET("/device", func(c *gin.Context) {
		d := GetDevice(c)
		c.JSON(http.StatusOK, gin.H{"type": d.Type, "platform": d.Platform})
	})
	return router
}

func TestDeviceDetectionMiddleware(t *testing.T) {
	router := deviceRouter()

	tests := []struct {
		name     string
		ua       string
		header   string
		wantType string
	}{
		{"user agent only", uaAndroid, "", "android"},
		{"header overrides", uaDesktop, "tvos", "tvos"},
		{"header case insensitive", uaDesktop, "ANDROID", "android"},
		{"unknown header ignored", uaAppleTV, "toaster", "tvos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/device", nil)
			req.Header.Set("User-Agent", tt.ua)
			if tt.header != "" {
				req.Header.Set(DeviceTypeHeader, tt.header)
			}
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
		})
	}
}

func TestGetDeviceDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, models.DeviceTypeWeb, GetDevice(c).Type)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/id", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")

	router := gin.New()
	router.Use(RequestID(), Logger(logger))
	router.GET("/api/v1/content/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/content/42?x=1", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	router.ServeHTTP(w, req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1/content/42?x=1", entry["path"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status_code"])
}

func TestTracingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	prev := opentracing.GlobalTracer()
	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(prev)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/api/v1/content/:id", func(c *gin.Context) {
		span := opentracing.SpanFromContext(c.Request.Context())
		if span == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/content/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/content/:id", spans[0].OperationName)
	assert.Equal(t, uint16(http.StatusOK), spans[0].Tag("http.status_code"))
}
