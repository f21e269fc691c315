package main

import (
	"context"
	"log"
	"net"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"community-service/internal/accounts"
	"community-service/internal/auth"
	"community-service/internal/config"
	"community-service/internal/db"
	"community-service/internal/grpcserver"
	"community-service/internal/handlers"
	"community-service/internal/middleware"
	"community-service/internal/moderation"
	"community-service/internal/notifications"
	"community-service/internal/observability"
	"community-service/internal/rabbitmq"
	"community-service/internal/repositories"
	"community-service/internal/social"
	"community-service/internal/telemetry"
	"community-service/internal/validation"
	"community-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(context.Background(), cfg.ServiceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, cfg.ServiceName, cfg.Environment)

	userRepo := repositories.NewUserRepo(database)
	profileRepo := repositories.NewProfileRepo(database)
	friendshipRepo := repositories.NewFriendshipRepo(database)
	friendRequestRepo := repositories.NewFriendRequestRepo(database)
	postRepo := repositories.NewPostRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	flagRepo := repositories.NewFlagRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)

	hub := ws.NewHub()
	validate := validation.New()
	tokens := auth.NewTokens(cfg.JWTSecret)

	emitter := notifications.NewEmitter(notificationRepo, hub)
	inbox := notifications.NewInbox(notificationRepo, hub)
	names := notifications.NewDisplayNames(userRepo)
	accountService := accounts.NewService(userRepo, profileRepo, validate, cfg.AdminEmails())
	workflow := social.NewWorkflow(friendRequestRepo, userRepo, social.NewLedger(friendshipRepo), emitter, names)
	flags := moderation.NewFlags(flagRepo, postRepo, messageRepo, userRepo, profileRepo, validate, audit, cfg.ResolutionPolicy())
	moderator := moderation.NewModerator(postRepo, messageRepo, userRepo, profileRepo, flags, emitter, audit)

	accountHandler := handlers.NewAccountHandler(accountService)
	friendHandler := handlers.NewFriendHandler(workflow, userRepo)
	flagHandler := handlers.NewFlagHandler(flags)
	moderationHandler := handlers.NewModerationHandler(flags, moderator, userRepo)
	notificationHandler := handlers.NewNotificationHandler(inbox)
	profileHandler := handlers.NewProfileHandler(accountService)
	notificationWS := ws.NewNotificationWebSocketHandler(hub, tokens, accountService)

	router := gin.New()

	// middlewares
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(middleware.RequestID())
	router.Use(sessions.Sessions("community_session", cookie.NewStore([]byte(cfg.SessionSecret))))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/notifications", notificationWS.Handle)
	handlers.RegisterDebugRoutes(router, audit, tokens, cfg.DebugRoutes)

	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(tokens, accountService), middleware.SuspensionGate())
	{
		authed.GET("/messages/", accountHandler.Messages)
		authed.POST("/logout/", accountHandler.Logout)
		authed.GET("/account-suspended/", accountHandler.Suspended)

		authed.GET("/friends/", friendHandler.Overview)
		authed.POST("/friends/send/", friendHandler.Send)
		authed.POST("/friends/accept/", friendHandler.Accept)
		authed.POST("/friends/reject/", friendHandler.Reject)
		authed.POST("/friends/unfriend/", friendHandler.Unfriend)

		authed.POST("/moderation/flag/", flagHandler.File)

		authed.GET("/notifications/", notificationHandler.List)
		authed.POST("/notifications/read-all/", notificationHandler.ReadAll)

		authed.POST("/profiles/", profileHandler.Upsert)
		authed.GET("/profiles/:username", profileHandler.Public)
	}

	mod := authed.Group("/moderation")
	mod.Use(middleware.RequireModerator())
	{
		mod.GET("/", moderationHandler.Dashboard)
		mod.POST("/remove-post/", moderationHandler.RemovePost)
		mod.POST("/remove-message/", moderationHandler.RemoveMessage)
		mod.POST("/dismiss/", moderationHandler.Dismiss)
		mod.POST("/action/", moderationHandler.MarkActioned)
		mod.POST("/suspend/", moderationHandler.Suspend)
		mod.POST("/reinstate/", moderationHandler.Reinstate)
		mod.GET("/suspended-users/", moderationHandler.SuspendedUsers)
	}

	grpcSrv := grpcserver.New()
	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			log.Fatalf("grpc listen error: %v", err)
		}
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatalf("grpc server error: %v", err)
		}
	}()

	log.Printf("%s starting on :%s env=%s", cfg.ServiceName, cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
