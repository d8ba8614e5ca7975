package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aihub-backend/internal/config"
	"aihub-backend/internal/handler"
	"aihub-backend/internal/prefs"
	"aihub-backend/internal/service"
	"aihub-backend/internal/storage"
	"aihub-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	prefsStore, err := prefs.NewStore(cfg.Prefs.Path)
	if err != nil {
		logger.Fatalf("Failed to open preference store: %v", err)
	}
	defer prefsStore.Close()

	chatService := service.NewChatService(
		storage.NewMemoryStorage(),
		newResponder(cfg),
		cfg.Responder.Timeout,
	)
	catalogService := service.NewCatalogService()
	authService := service.NewAuthService(cfg.Auth)

	chatHandler := handler.NewChatHandler(chatService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	authHandler := handler.NewAuthHandler(authService)
	prefsHandler := handler.NewPrefsHandler(prefsStore)

	router := setupRouter(cfg, chatHandler, catalogHandler, authHandler, prefsHandler)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("Server listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")
	if err := server.Close(); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}

// newResponder picks the Responder implementation from config. The canned
// stub is the default; "openai" swaps in the real backend without touching
// the chat service.
func newResponder(cfg *config.Config) service.Responder {
	switch cfg.Responder.Type {
	case "openai":
		logger.Infof("Using OpenAI responder, model %s", cfg.OpenAI.Model)
		return service.NewOpenAIResponder(cfg.OpenAI)
	default:
		return service.NewCannedResponder(cfg.Responder.MinDelay, cfg.Responder.MaxDelay)
	}
}

func setupRouter(
	cfg *config.Config,
	chatHandler *handler.ChatHandler,
	catalogHandler *handler.CatalogHandler,
	authHandler *handler.AuthHandler,
	prefsHandler *handler.PrefsHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	api := router.Group("/api")
	{
		chat := api.Group("/chat")
		{
			chat.POST("/send", chatHandler.SendMessage)
			chat.POST("/session", chatHandler.CreateSession)
			chat.POST("/session/list", chatHandler.GetSessionList)
			chat.GET("/session/:session_id", chatHandler.GetSession)
			chat.POST("/select/:session_id", chatHandler.SelectSession)
			chat.GET("/current", chatHandler.GetCurrentSession)
			chat.GET("/messages/:session_id", chatHandler.GetMessages)
			chat.GET("/history", chatHandler.GetHistory)
		}

		catalog := api.Group("/catalog")
		{
			catalog.GET("/models", catalogHandler.ListModels)
			catalog.GET("/models/recommended", catalogHandler.RecommendedModels)
			catalog.GET("/categories", catalogHandler.Categories)
			catalog.GET("/providers", catalogHandler.Providers)
			catalog.GET("/questions", catalogHandler.SampleQuestions)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		prefsGroup := api.Group("/prefs")
		{
			prefsGroup.GET("/developer-mode", prefsHandler.GetDeveloperMode)
			prefsGroup.PUT("/developer-mode", prefsHandler.SetDeveloperMode)
		}
	}

	return router
}
