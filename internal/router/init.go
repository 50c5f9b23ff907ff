package router

import (
	"github.com/oksasatya/go-feed-service/internal/application"
	"github.com/oksasatya/go-feed-service/internal/container"
	"github.com/oksasatya/go-feed-service/internal/eventlog"
	"github.com/oksasatya/go-feed-service/internal/infrastructure/gcs"
	pginfra "github.com/oksasatya/go-feed-service/internal/infrastructure/postgres"
	gqlapi "github.com/oksasatya/go-feed-service/internal/interface/graphql"
	handlers "github.com/oksasatya/go-feed-service/internal/interface/http"
	"github.com/oksasatya/go-feed-service/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module with the registry. Called
// once during startup.
func InitModules(r *Registry) error {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	posts := pginfra.NewPostRepository(container.GetPGPool())
	blobs := gcs.NewBlobStore(container.GetGCS(), cfg.GCSBucket)

	assets := application.NewAssetManager(blobs, logger)
	events := eventlog.NewPublisher(container.GetRabbitPub(), logger)

	authSvc := application.NewAuthService(users, container.GetJWT(), logger)
	postSvc := application.NewPostService(posts, users, assets, container.GetHub(), events, logger, cfg.FeedPageSize)

	schema, err := gqlapi.NewSchema(&gqlapi.Resolver{
		Auth:  authSvc,
		Posts: postSvc,
		Cfg:   cfg,
	})
	if err != nil {
		return err
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, cfg, logger), container.GetJWT()))
	r.Add(modules.NewFeedModule(
		handlers.NewFeedHandler(postSvc, blobs, logger),
		handlers.NewStreamHandler(container.GetHub(), logger),
		container.GetJWT(),
	))
	r.Add(modules.NewGraphQLModule(gqlapi.NewHandler(schema), container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return nil
}
