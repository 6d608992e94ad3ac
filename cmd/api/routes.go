package main

import "github.com/gin-gonic/gin"

// setupRoutes registers the streaming API under router
func setupRoutes(router *gin.RouterGroup, api *API) {
	// Discovery
	router.GET("/home", api.getHomepage)
	router.GET("/search", api.search)
	router.GET("/browse", api.browse)

	// Content
	content := router.Group("/content")
	{
		content.GET("/:id", api.getContent)
		content.GET("/:id/subtitles/:lang", api.getSubtitleDocument) // Generated WebVTT
	}

	// My List
	mylist := router.Group("/mylist")
	{
		mylist.GET("", api.getMyList)
		mylist.GET("/:id", api.isInMyList)
		mylist.PUT("/:id", api.addToMyList)
		mylist.DELETE("/:id", api.removeFromMyList)
	}

	// Playback
	router.GET("/continue-watching", api.getContinueWatching)
	router.POST("/heartbeat", api.heartbeat)
	router.POST("/playout", api.playout)

	// Subtitles
	router.POST("/subtitles/cues", api.loadSubtitleCues)

	// Preferences
	router.GET("/preferences/:key", api.getPreference)
	router.PUT("/preferences/:key", api.setPreference)
}
