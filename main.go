package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"friendo-service/internal/cache"
	"friendo-service/internal/config"
	"friendo-service/internal/db"
	"friendo-service/internal/entitlements"
	"friendo-service/internal/handlers"
	"friendo-service/internal/meetings"
	"friendo-service/internal/middleware"
	"friendo-service/internal/observability"
	"friendo-service/internal/rabbitmq"
	"friendo-service/internal/reminders"
	"friendo-service/internal/repositories"
	"friendo-service/internal/telemetry"
	"friendo-service/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := observability.InitTracer(ctx, "friendo-service", cfg.OTLPEndpoint)
	if err != nil {
		log.Printf("tracer init: %v", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	database, err := db.ConnectDSN(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	store := cache.NewStore(cfg.RedisURL)

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer publisher.Close()
	if mode := rabbitmq.PublisherMode(publisher); mode == "noop" {
		log.Printf("audit publisher mode=%s reason=%q", mode, rabbitmq.PublisherNoopReason(publisher))
	}

	if eventsPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AuditExchange); err != nil {
		log.Printf("ws event publishing disabled: %v", err)
	} else {
		defer eventsPublisher.Close()
		observability.SetPublisher(eventsPublisher)
	}

	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRouting, "friendo-service", cfg.AppEnv)

	userRepo := repositories.NewUserRepo(database)
	friendRepo := repositories.NewFriendRepo(database)
	meetingRepo := repositories.NewMeetingRepo(database)
	venueRepo := repositories.NewVenueRepo(database)
	subsRepo := repositories.NewSubscriptionRepo(database)
	settingsRepo := repositories.NewSettingsRepo(database)

	checker := entitlements.NewChecker(subsRepo, store, cfg.EntitlementCacheTTL)
	hub := ws.NewHub()
	service := meetings.NewService(meetingRepo, friendRepo, checker, hub)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.SessionTTL)
	friendHandler := handlers.NewFriendHandler(friendRepo, service)
	meetingHandler := handlers.NewMeetingHandler(service, audit)
	venueHandler := handlers.NewVenueHandler(venueRepo, store, cfg.VenueCacheTTL)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)
	billingHandler := handlers.NewBillingHandler(subsRepo, checker, cfg.BillingWebhookSecret, audit)

	meetingWS := ws.NewMeetingWebSocketHandler(hub, service, userRepo)

	scheduler := reminders.NewScheduler(friendRepo, meetingRepo, settingsRepo, publisher, cfg.ReminderHour, cfg.ReminderSweep)
	go scheduler.Run(ctx)

	router := gin.Default()
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/billing/webhook", billingHandler.Webhook)

	authMiddleware := middleware.AuthMiddleware(userRepo)

	router.POST("/auth/logout", authMiddleware, authHandler.Logout)

	router.GET("/friends", authMiddleware, friendHandler.ListFriends)
	router.POST("/friends", authMiddleware, friendHandler.CreateFriend)
	router.PUT("/friends/:id", authMiddleware, friendHandler.UpdateFriend)
	router.DELETE("/friends/:id", authMiddleware, friendHandler.DeleteFriend)
	router.GET("/friends/:id/tokens", authMiddleware, friendHandler.FriendTokens)

	router.POST("/meetings", authMiddleware, meetingHandler.CreateMeeting)
	router.GET("/meetings/:id", authMiddleware, meetingHandler.GetMeeting)
	router.POST("/meetings/:id/cancel", authMiddleware, meetingHandler.CancelMeeting)
	router.DELETE("/meetings/:id", authMiddleware, meetingHandler.EraseMeeting)

	router.GET("/venues", authMiddleware, venueHandler.ListVenues)

	router.GET("/settings", authMiddleware, settingsHandler.GetSettings)
	router.PUT("/settings", authMiddleware, settingsHandler.UpdateSettings)

	router.GET("/billing/status", authMiddleware, billingHandler.GetStatus)

	admin := router.Group("/admin", authMiddleware, middleware.AdminMiddleware(userRepo))
	admin.GET("/venues", venueHandler.ListAllVenues)
	admin.GET("/venues/:id", venueHandler.GetVenue)
	admin.POST("/venues", venueHandler.CreateVenue)
	admin.PUT("/venues/:id", venueHandler.UpdateVenue)
	admin.DELETE("/venues/:id", venueHandler.DeleteVenue)

	router.GET("/ws/tokens", meetingWS.Handle)

	handlers.RegisterDebugRoutes(router, audit, cfg.Debug)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
