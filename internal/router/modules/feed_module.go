package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-feed-service/internal/container"
	handlers "github.com/oksasatya/go-feed-service/internal/interface/http"
	"github.com/oksasatya/go-feed-service/internal/interface/middleware"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

type FeedModule struct {
	Feed   *handlers.FeedHandler
	Stream *handlers.StreamHandler
	JWT    *helpers.JWTManager
}

func NewFeedModule(feed *handlers.FeedHandler, stream *handlers.StreamHandler, jwt *helpers.JWTManager) *FeedModule {
	return &FeedModule{Feed: feed, Stream: stream, JWT: jwt}
}

func (m *FeedModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/feed")
	auth.Use(middleware.RequireAuth(m.JWT))

	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil)
	writeLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)

	auth.GET("/posts", readLimiter, m.Feed.GetPosts)
	auth.GET("/post/:id", readLimiter, m.Feed.GetPost)
	auth.POST("/post", writeLimiter, m.Feed.CreatePost)
	auth.PUT("/post/:id", writeLimiter, m.Feed.UpdatePost)
	auth.DELETE("/post/:id", writeLimiter, m.Feed.DeletePost)

	// Long-lived SSE connection; a connect counter rather than a request counter
	auth.GET("/stream", middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil), m.Stream.Stream)
}
