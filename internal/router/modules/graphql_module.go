package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-feed-service/internal/container"
	gqlapi "github.com/oksasatya/go-feed-service/internal/interface/graphql"
	"github.com/oksasatya/go-feed-service/internal/interface/middleware"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

type GraphQLModule struct {
	Handler *gqlapi.Handler
	JWT     *helpers.JWTManager
}

func NewGraphQLModule(h *gqlapi.Handler, jwt *helpers.JWTManager) *GraphQLModule {
	return &GraphQLModule{Handler: h, JWT: jwt}
}

func (m *GraphQLModule) Register(rg *gin.RouterGroup) {
	// Auth is optional at the transport; resolvers that need an identity
	// reject unauthenticated callers themselves.
	limiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.POST("/graphql", middleware.OptionalAuth(m.JWT), limiter, m.Handler.Serve)
}
