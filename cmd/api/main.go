package main

import (
	"context"
	"log"
	"time"

	"shipment-portal/internal/core/config"
	"shipment-portal/internal/core/kvstore"
	"shipment-portal/internal/core/logger"
	"shipment-portal/internal/core/server"
	authadapter "shipment-portal/internal/features/auth/adapters"
	authhandler "shipment-portal/internal/features/auth/handler"
	authservice "shipment-portal/internal/features/auth/service"
	shipmentadapter "shipment-portal/internal/features/shipments/adapters"
	shipmenthandler "shipment-portal/internal/features/shipments/handler"
	shipmentservice "shipment-portal/internal/features/shipments/service"

	"go.uber.org/zap"
)

// @title Shipment Portal API
// @version 1.0
// @description Gateway for DHL shipment tracking: sessions, tracking, and admin shipment management.
// @contact.name API Support
// @contact.email support@shipment-portal.local
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Session store and health check
	store, err := kvstore.NewRedisAdapter(cfg.Session.RedisURL)
	if err != nil {
		l.Fatal("Failed to connect to session store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		l.Fatal("Session store health check failed", zap.Error(err))
	}
	l.Info("Session store connection verified")

	// Auth feature
	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	sessionRepo := authadapter.NewRedisSessionRepository(store, sessionTTL)
	authSvc := authservice.NewAuthService(authadapter.NewRESTAdapter(cfg.ShipmentAPI), sessionRepo)
	authHdl := authhandler.NewAuthHandler(authSvc)
	guard := authhandler.NewMiddleware(authSvc)

	// Shipments feature
	shipmentSvc := shipmentservice.NewShipmentService(shipmentadapter.NewRESTAdapter(cfg.ShipmentAPI))
	shipmentHdl := shipmenthandler.NewShipmentHandler(shipmentSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/auth/login", authHdl.Login)
	srv.App.Post("/auth/logout", guard.RequireAuth, authHdl.Logout)

	srv.App.Get("/shipment/:trackingId", guard.RequireAuth, shipmentHdl.TrackShipment)
	srv.App.Post("/shipment", guard.RequireAdmin, shipmentHdl.CreateShipment)
	srv.App.Put("/shipment/:trackingId/status", guard.RequireAdmin, shipmentHdl.UpdateShipmentStatus)

	srv.App.Get("/shipments", guard.RequireAdmin, shipmentHdl.ListAdminShipments)
	srv.App.Get("/shipments/last-viewed", guard.RequireAuth, shipmentHdl.LastViewedShipment)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
