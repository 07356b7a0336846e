// Package app wires storage, transports and usecases into a runnable
// service.
package app

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	trmanager "github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"exhibitions/internal/application/usecases/auth"
	"exhibitions/internal/application/usecases/bookings"
	"exhibitions/internal/application/usecases/exhibitions"
	"exhibitions/internal/application/usecases/lookups"
	"exhibitions/internal/application/usecases/purchase"
	"exhibitions/internal/config"
	"exhibitions/internal/infrastructure/clients"
	"exhibitions/internal/infrastructure/qrcode"
	"exhibitions/internal/interfaces/events"
	"exhibitions/internal/interfaces/http"
	"exhibitions/internal/observability"
	"exhibitions/internal/outbox"
	"exhibitions/internal/repository"
)

type App struct {
	logger          zerolog.Logger
	watermillLogger watermill.LoggerAdapter
	router          *message.Router
	forwarder       *outbox.Forwarder
	srv             *http.Server
	db              *sqlx.DB
}

func NewApp(
	cfg *config.Config,
	logger zerolog.Logger,
	db *sqlx.DB,
	redisClient *redis.Client,
) (*App, error) {
	watermillLogger := observability.NewWatermillLogger(logger)

	trManager := trmanager.Must(trmsqlx.NewDefaultFactory(db))
	trGetter := trmsqlx.DefaultCtxGetter

	exhibitionsRepo := repository.NewExhibitionsRepo(db, trGetter)
	ticketsRepo := repository.NewTicketsRepo(db, trGetter)
	lookupsRepo := repository.NewLookupsRepo(db)
	usersRepo := repository.NewUsersRepo(db)
	opsRepo := repository.NewOpsBookingReadModelRepo(db, trGetter)

	codeGenerator := qrcode.NewGenerator(cfg.QRCodeDir, cfg.PublicBaseURL+"/public/qrcodes")
	whatsappClient := clients.NewWhatsAppClient(cfg.WhatsAppBaseURL, cfg.NotifyTimeout)

	purchaseService := purchase.NewCreatePurchaseUsecase(
		exhibitionsRepo,
		ticketsRepo,
		codeGenerator,
		whatsappClient,
		cfg.NotifyTimeout,
		trManager,
		purchase.NewOutboxEventPublisher(trGetter, watermillLogger),
	)
	exhibitionsService := exhibitions.NewManageExhibitionsUsecase(exhibitionsRepo, lookupsRepo)
	lookupsService := lookups.NewManageLookupsUsecase(lookupsRepo)
	authService := auth.NewAuthUsecase(usersRepo, cfg.JWTSecret, cfg.TokenTTL)
	bookingsService := bookings.NewListBookingsUsecase(ticketsRepo, opsRepo)

	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	processor, err := events.NewEventProcessor(router, redisClient, watermillLogger)
	if err != nil {
		return nil, err
	}
	err = processor.AddHandlers(
		events.ProjectOpsBookingHandler(opsRepo),
	)
	if err != nil {
		return nil, err
	}

	fwd, err := outbox.NewForwarder(db, redisClient, watermillLogger)
	if err != nil {
		return nil, err
	}

	srv := http.NewServer(
		echo.New(),
		":"+cfg.Port,
		logger,
		purchaseService,
		exhibitionsService,
		lookupsService,
		authService,
		bookingsService,
		cfg.QRCodeDir,
		cfg.EnableMetrics,
		router.IsRunning,
	)

	return &App{
		logger:          logger,
		watermillLogger: watermillLogger,
		router:          router,
		forwarder:       fwd,
		srv:             srv,
		db:              db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := repository.InitializeDBSchema(a.db); err != nil {
		return err
	}

	a.forwarder.RunForwarder(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Msg("starting router")

		return a.router.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("router is running")

		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		err := a.srv.Stop(context.Background())
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return err
	})

	return g.Wait()
}
