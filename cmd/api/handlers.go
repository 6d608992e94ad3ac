package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/catalog"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/middleware"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/subtitle"
	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.svc.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"catalog": api.svc.Catalog().Len(),
	})
}

// contentID parses the :id path parameter
func (api *API) contentID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		api.badRequest(c, "invalid content id %q", c.Param("id"))
		return 0, false
	}
	return id, true
}

// Homepage endpoint
func (api *API) getHomepage(c *gin.Context) {
	home, err := api.svc.Homepage(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

// Search endpoint
func (api *API) search(c *gin.Context) {
	query := c.Query("q")
	results, err := api.svc.Search(c.Request.Context(), query)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// Browse endpoint
func (api *API) browse(c *gin.Context) {
	filter := catalog.BrowseFilter{
		Type: models.ContentType(c.Query("type")),
		Tag:  c.Query("tag"),
	}

	var err error
	if v := c.Query("page"); v != "" {
		if filter.Page, err = strconv.Atoi(v); err != nil {
			api.badRequest(c, "invalid page %q", v)
			return
		}
	}
	if v := c.Query("pageSize"); v != "" {
		if filter.PageSize, err = strconv.Atoi(v); err != nil {
			api.badRequest(c, "invalid pageSize %q", v)
			return
		}
	}

	page, err := api.svc.Browse(c.Request.Context(), filter)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get content endpoint
func (api *API) getContent(c *gin.Context) {
	id, ok := api.contentID(c)
	if !ok {
		return
	}

	item, err := api.svc.Content(c.Request.Context(), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Generated WebVTT document endpoint
func (api *API) getSubtitleDocument(c *gin.Context) {
	id, ok := api.contentID(c)
	if !ok {
		return
	}

	doc, err := api.svc.SubtitleDocument(c.Request.Context(), id, c.Param("lang"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/vtt; charset=utf-8", []byte(doc))
}

// My list endpoints

func (api *API) getMyList(c *gin.Context) {
	items, err := api.svc.MyList(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (api *API) isInMyList(c *gin.Context) {
	id, ok := api.contentID(c)
	if !ok {
		return
	}

	in, err := api.svc.IsInMyList(c.Request.Context(), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contentId": id, "inMyList": in})
}

func (api *API) addToMyList(c *gin.Context) {
	id, ok := api.contentID(c)
	if !ok {
		return
	}

	if err := api.svc.AddToMyList(c.Request.Context(), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contentId": id, "inMyList": true})
}

func (api *API) removeFromMyList(c *gin.Context) {
	id, ok := api.contentID(c)
	if !ok {
		return
	}

	if err := api.svc.RemoveFromMyList(c.Request.Context(), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contentId": id, "inMyList": false})
}

// Continue watching endpoint
func (api *API) getContinueWatching(c *gin.Context) {
	items, err := api.svc.ContinueWatching(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// HeartbeatRequest reports the playback position of a content item
type HeartbeatRequest struct {
	ContentID      int      `json:"contentId" binding:"required"`
	ElapsedSeconds *float64 `json:"elapsedSeconds" binding:"required"`
}

// Heartbeat endpoint
func (api *API) heartbeat(c *gin.Context) {
	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.badRequest(c, "%s", err.Error())
		return
	}

	progress, err := api.svc.Heartbeat(c.Request.Context(), req.ContentID, *req.ElapsedSeconds)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Playout endpoint. Device type and platform fall back to what the device
// middleware derived from the User-Agent.
func (api *API) playout(c *gin.Context) {
	var req models.PlayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.badRequest(c, "%s", err.Error())
		return
	}
	if req.ContentID <= 0 {
		api.badRequest(c, "contentId is required")
		return
	}

	device := middleware.GetDevice(c)
	if req.DeviceType == "" {
		req.DeviceType = device.Type
		if req.Platform == "" {
			req.Platform = device.Platform
		}
	}

	desc, err := api.svc.Playout(c.Request.Context(), req)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, desc)
}

// SubtitleCuesRequest asks for a subtitle document to be loaded and
// optionally for the cue active at Time.
type SubtitleCuesRequest struct {
	URL    string   `json:"url" binding:"required"`
	Time   *float64 `json:"time,omitempty"`
	Strict bool     `json:"strict,omitempty"`
}

// SubtitleCuesResponse is the parsed document plus the optional lookup
type SubtitleCuesResponse struct {
	*subtitle.Result
	Count      int     `json:"count"`
	CurrentCue *string `json:"currentCue,omitempty"`
}

// Subtitle cues endpoint
func (api *API) loadSubtitleCues(c *gin.Context) {
	var req SubtitleCuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.badRequest(c, "%s", err.Error())
		return
	}

	result, err := api.svc.LoadSubtitles(c.Request.Context(), req.URL, req.Strict)
	if err != nil {
		api.respondError(c, err)
		return
	}

	resp := SubtitleCuesResponse{Result: result, Count: len(result.Cues)}
	if req.Time != nil {
		if text, ok := subtitle.CurrentCue(result.Cues, *req.Time); ok {
			resp.CurrentCue = &text
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Preference endpoints

func (api *API) getPreference(c *gin.Context) {
	key := c.Param("key")
	value, found, err := api.svc.Preference(c.Request.Context(), key)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value, "found": found})
}

// PreferenceRequest sets a preference value
type PreferenceRequest struct {
	Value string `json:"value" binding:"required"`
}

func (api *API) setPreference(c *gin.Context) {
	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.badRequest(c, "%s", err.Error())
		return
	}

	key := c.Param("key")
	if err := api.svc.SetPreference(c.Request.Context(), key, req.Value); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value, "found": true})
}
