package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-feed-service/internal/container"
	handlers "github.com/oksasatya/go-feed-service/internal/interface/http"
	"github.com/oksasatya/go-feed-service/internal/interface/middleware"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.PUT("/auth/signup", signupLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	// Status update requires a verified identity
	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/auth/status", m.Handler.GetStatus)
		auth.PATCH("/auth/status", m.Handler.UpdateStatus)
	}
}
