package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hotel-lead-crm/internal/config"
	"hotel-lead-crm/internal/database"
	"hotel-lead-crm/internal/handler"
	"hotel-lead-crm/internal/logger"
	"hotel-lead-crm/internal/middleware"
	"hotel-lead-crm/internal/repository"
	"hotel-lead-crm/internal/router"
)

func main() {
	cfg := config.Load()

	zlog, sync := logger.New(cfg.LogLevel, cfg.LogJSON, cfg.Env)
	defer sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when redis is unreachable; limiter fails open

	users := repository.NewUserRepo(db)
	hotels := repository.NewHotelRepo(db)
	tokens := repository.NewTokenRepo(db)
	dash := repository.NewDashboardRepo(db)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	admin := handler.NewAdminHandler(cfg, users, hotels)
	hotelH := handler.NewHotelHandler(cfg, hotels)
	dashH := handler.NewDashboardHandler(cfg, dash)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID(zlog))
	e.Use(logger.Middleware(zlog))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterHotels(e, hotelH, dashH, cfg.JWTSecret)
	router.RegisterAdmin(e, admin, cfg.JWTSecret)

	addr := ":" + cfg.Port
	zlog.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
