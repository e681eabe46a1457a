package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"shorturl-go/internal/auth"
	"shorturl-go/internal/cache"
	"shorturl-go/internal/controller"
	"shorturl-go/internal/geoip"
	"shorturl-go/internal/kvstore"
	"shorturl-go/internal/model"
	"shorturl-go/internal/ratelimit"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/service"
)

func init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// --- Durable store (MySQL) ---
	dsn := viper.GetString("database.mysql.dsn")
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := db.AutoMigrate(&model.Link{}, &model.ClickEvent{}); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}
	logger.Info("database connection successful")

	// --- Cache/counter store (Redis) ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.redis.addr"),
		Password: viper.GetString("cache.redis.password"),
		DB:       viper.GetInt("cache.redis.db"),
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	logger.Info("redis connection successful")
	kv := kvstore.NewRedisStore(rdb)

	// --- Web framework (Echo) ---
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	// --- Dependency wiring, bottom up ---
	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)

	geoClient := geoip.NewClient(viper.GetString("geoip.base_url"))
	clickLogger := service.NewClickLogger(linkRepo, clickRepo, geoClient, logger,
		viper.GetInt("clicks.queue_size"), viper.GetInt("clicks.workers"))

	urlCache := cache.NewURLCache(kv, logger)
	limiter := ratelimit.NewLimiter(kv)

	appURL := viper.GetString("server.app_url")
	linkSvc := service.NewLinkService(linkRepo, urlCache, limiter, clickLogger, appURL, logger)
	analyticsSvc := service.NewAnalyticsService(linkRepo, clickRepo)
	controller.NewLinkController(e, linkSvc, analyticsSvc)

	tokens := auth.NewTokenService(
		viper.GetString("auth.secret"),
		viper.GetStringMapString("auth.users"),
		auth.NewKVTokenStore(kv),
	)
	controller.NewAuthController(e, tokens)
	logger.Info("controllers and routes initialized")

	// --- Serve until signalled ---
	serverPort := viper.GetString("server.port")
	go func() {
		if err := e.Start(serverPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	// Drain pending click events after the server stops accepting requests.
	clickLogger.Close()
}
