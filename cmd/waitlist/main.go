package main

import (
	"context"
	"log/slog"
	"os"

	"waitlist/config"
	"waitlist/internal/delivery"
	"waitlist/internal/delivery/http"
	"waitlist/internal/delivery/http/middleware"
	"waitlist/internal/delivery/http/router/handler"
	"waitlist/internal/domain/service"
	"waitlist/internal/infra/linkedin"
	logs "waitlist/internal/infra/log"
	"waitlist/internal/infra/sheets"
	"waitlist/internal/infra/state"
	"waitlist/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		newSessionStore,
		newFallbackStore,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			state.NewBroker,
			fx.Annotate(
				linkedin.NewClient,
				fx.As(new(service.OAuthExchanger)),
				fx.As(new(service.IdentityResolver)),
				fx.As(new(service.MediaPublisher)),
			),
			fx.Annotate(
				sheets.NewLedger,
				fx.As(new(service.Ledger)),
			),
		),
	)
}

// newSessionStore creates the session-scoped state store.
func newSessionStore(cfg *config.Config) *state.SessionStore {
	return state.NewSessionStore(cfg.Session.StateTTL)
}

// newFallbackStore creates the token-keyed fallback store and ties its
// sweeper to the application lifecycle.
func newFallbackStore(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) *state.FallbackStore {
	store := state.NewFallbackStore(cfg.Session.StateTTL, cfg.Session.SweepInterval, logger)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			store.Start()

			return nil
		},
		OnStop: func(context.Context) error {
			store.Stop()

			return nil
		},
	})

	return store
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewWaitlistService,
			impl.NewAmplifyService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewSessionMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewWaitlistHandler,
			handler.NewAmplifyHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
