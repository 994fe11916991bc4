package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/myroutine-backend/internal/config"
	"github.com/iliyamo/myroutine-backend/internal/database"
	"github.com/iliyamo/myroutine-backend/internal/handler"
	"github.com/iliyamo/myroutine-backend/internal/imagestore"
	"github.com/iliyamo/myroutine-backend/internal/logging"
	"github.com/iliyamo/myroutine-backend/internal/middleware"
	"github.com/iliyamo/myroutine-backend/internal/queue"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/router"
	"github.com/iliyamo/myroutine-backend/internal/service"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment may be set already
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("migrate database", "err", err)
		os.Exit(1)
	}
	store := repository.NewStore(db)

	// Redis is optional: without it the cache and the rate limiter pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	var email service.EmailSender = queue.LogSender{Log: log}
	pub := queue.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.EmailQueue)
	if err := pub.Ping(); err != nil {
		log.Warn("email queue unavailable; reset emails will be logged only", "err", err)
	} else {
		email = pub
	}

	images, err := imagestore.NewS3Store(ctx, cfg.S3)
	if err != nil {
		log.Error("image store", "err", err)
		os.Exit(1)
	}

	tokens := utils.NewTokenService(cfg.Tokens)
	cookies := middleware.NewCookies(cfg.Cookie, cfg.Tokens)
	sessions := &service.SessionService{
		Tokens:      tokens,
		Credentials: store.Credentials,
		Ledger:      store.InvalidTokens,
		Users:       store.Users,
		Log:         log,
	}
	auth := &service.AuthService{
		Store:       store,
		Tokens:      tokens,
		Email:       email,
		Images:      images,
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		FrontendURL: cfg.FrontendURL,
		BcryptCost:  cfg.Tokens.BcryptCost,
		Log:         log,
	}
	deleter := &service.DeletionService{Store: store, Images: images, Log: log}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))
	e.Use(echomw.Secure())
	e.Use(echomw.Gzip())

	router.RegisterRoutes(e, router.Handlers{
		Health:      handler.Health(db),
		User:        &handler.UserHandler{Auth: auth, Deleter: deleter, Store: store, Cookies: cookies},
		Google:      handler.NewGoogleHandler(cfg.Google, auth, cookies, cfg.FrontendURL),
		Routine:     &handler.RoutineHandler{Store: store, Deleter: deleter},
		Exercise:    &handler.ExerciseHandler{Store: store, Deleter: deleter},
		Set:         &handler.SetHandler{Store: store, Sets: &service.SetService{Store: store}, Deleter: deleter},
		Day:         &handler.DayHandler{Store: store},
		MuscleGroup: &handler.MuscleGroupHandler{Store: store},
		Photo:       &handler.PhotoHandler{Store: store, Images: images, Deleter: deleter},
	}, router.Guards{
		Session:   sessions,
		Cookies:   cookies,
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
	})

	// Ledger rows outlive the tokens they block by at most one refresh TTL.
	go service.PurgeLedger(ctx, store.InvalidTokens, cfg.Tokens.RefreshTTL,
		cfg.Tokens.LedgerPurgeInterval, time.Now, log)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("server stopped")
}
