package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sa-matric/connect/internal/config"
	"github.com/sa-matric/connect/internal/db"
	"github.com/sa-matric/connect/internal/es"
	"github.com/sa-matric/connect/internal/events"
	"github.com/sa-matric/connect/internal/httpserver"
	"github.com/sa-matric/connect/internal/logging"
	"github.com/sa-matric/connect/internal/middleware"
	"github.com/sa-matric/connect/internal/repo"
	"github.com/sa-matric/connect/internal/search"
	"github.com/sa-matric/connect/internal/service"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		cancel()
		log.Fatalf("db migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	gormRepo := &repo.GormRepo{DB: database}

	var searchHandler *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			cancel()
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deadlines, err := gormRepo.AllDeadlines(initCtx)
		if err != nil {
			cancel()
			log.Fatalf("loading deadlines for index: %v", err)
		}
		if err := search.IndexDeadlines(initCtx, esClient, search.Index, deadlines); err != nil {
			cancel()
			log.Fatalf("indexing deadlines: %v", err)
		}
		searchHandler = &httpserver.SearchHTTP{ES: esClient, Index: search.Index}
	}
	cancel()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler(!cfg.IsProduction())
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:       gormRepo,
				Producer:   producer,
				Secret:     cfg.SessionSecret,
				SessionTTL: cfg.SessionTTL,
			},
			Secure: cfg.IsProduction(),
		},
		DashboardHandler: &httpserver.DashboardHTTP{
			Svc: &service.DashboardService{
				Repo:     gormRepo,
				Producer: producer,
			},
		},
		SearchHandler: searchHandler,
		Auth:          middleware.NewAuth(cfg.SessionSecret, cfg.IsProduction()),
		StaticDir:     cfg.StaticDir,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
