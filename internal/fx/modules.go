package fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"lol-coach/internal/ai"
	"lol-coach/internal/config"
	"lol-coach/internal/database"
	"lol-coach/internal/logger"
	"lol-coach/internal/metrics"
	"lol-coach/internal/riot"
	"lol-coach/internal/server"
	"lol-coach/internal/session"
	"lol-coach/internal/snapshot"
)

func provideBuilder(client *riot.Client, log zerolog.Logger) *snapshot.Builder {
	return snapshot.NewBuilder(client, log)
}

func provideInvoker(invoker *ai.BedrockInvoker) ai.ModelInvoker {
	return invoker
}

func provideStore(store *session.SQLiteStore) session.Store {
	return store
}

func provideCoachServer(builder *snapshot.Builder, coordinator *ai.Coordinator, store session.Store, cfg *config.Config, log zerolog.Logger) *server.CoachServer {
	return server.NewCoachServer(builder, coordinator, store, cfg, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(metrics.New),
	// riot api client
	fx.Provide(riot.NewClient),
	fx.Provide(provideBuilder),
	// bedrock models
	fx.Provide(ai.NewBedrockInvoker),
	fx.Provide(provideInvoker),
	fx.Provide(ai.NewCoordinator),
	// sessions
	fx.Provide(session.NewSQLiteStore),
	fx.Provide(provideStore),
	fx.Provide(session.NewSweeper),
	// server
	fx.Provide(provideCoachServer),
)
