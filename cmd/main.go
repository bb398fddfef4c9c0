package main

import (
	"property-service/internal/handler"
	mid "property-service/internal/middleware"
	"property-service/internal/notifier"
	"property-service/internal/repository"
	"property-service/internal/token"
	"property-service/pkg/config"
	"property-service/pkg/database"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if present; deployed environments set real env vars
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting property-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	db := database.GetDB()

	// Wire repositories, token service, and the notification dispatcher
	users := repository.NewUserRepository(db)
	tokens := token.NewService(db, appConfig.Token.ExpirationHours)

	mailer := notifier.NewSendGridMailer(appConfig.Mail)
	dispatcher := notifier.NewDispatcher(users, mailer, log, appConfig.Notify)
	dispatcher.Start()
	defer dispatcher.Stop()

	properties := repository.NewPropertyRepository(db, dispatcher)
	dashboard := repository.NewDashboardRepository(db)

	authHandler := handler.NewAuthHandler(users, tokens)
	propertyHandler := handler.NewPropertyHandler(properties)
	dashboardHandler := handler.NewDashboardHandler(dashboard)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	api := e.Group("/api")
	api.GET("/health", handler.Health)

	// Public auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Protected routes
	auth := mid.Auth(tokens)
	api.POST("/auth/logout", authHandler.Logout, auth)
	api.GET("/auth/me", authHandler.Me, auth)

	api.GET("/dashboard", dashboardHandler.Index, auth)

	propertyAPI := api.Group("/properties", auth)
	propertyAPI.GET("", propertyHandler.List)
	propertyAPI.POST("", propertyHandler.Create)
	propertyAPI.GET("/:id", propertyHandler.Get)
	propertyAPI.PUT("/:id", propertyHandler.Update)
	propertyAPI.DELETE("/:id", propertyHandler.Delete)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
