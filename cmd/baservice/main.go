package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/museumaceh/baservice/internal/config"
	"github.com/museumaceh/baservice/internal/infrastructure/database"
	"github.com/museumaceh/baservice/internal/infrastructure/repository"
	"github.com/museumaceh/baservice/internal/present/rest"
	appmw "github.com/museumaceh/baservice/internal/present/rest/middleware"
	"github.com/museumaceh/baservice/internal/service"
	"github.com/museumaceh/baservice/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := setupTrace(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				slog.Error("failed to shut down tracer", slog.String("error", err.Error()))
			}
		}()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	store := database.NewStore(db)

	userRepo := repository.NewUserRepository(store)
	staffRepo := repository.NewStaffRepository(store)
	collectionRepo := repository.NewCollectionRepository(store)
	transferRepo := repository.NewTransferRepository(store)

	transferUC := usecase.NewTransferUsecase(transferRepo, collectionRepo)
	collectionUC := usecase.NewCollectionUsecase(collectionRepo)
	staffUC := usecase.NewStaffUsecase(staffRepo)

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	authService := service.NewAuthService(conf.Auth, userRepo)
	signalService := service.NewSignalService(rdb)
	documentService := service.NewDocumentService(conf.Museum)
	dashboardService := service.NewDashboardService(collectionRepo, transferRepo, staffRepo, mc)

	authMiddleware := appmw.NewAuthMiddleware(authService)

	handler := rest.NewHandler(
		conf,
		authService,
		transferUC,
		collectionUC,
		staffUC,
		signalService,
		documentService,
		dashboardService,
	)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(otelecho.Middleware("baservice"))

	handler.RegisterRoutes(e, authMiddleware)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}

func setupTrace(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
