package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/melodia-social/melodia/config"
	"github.com/melodia-social/melodia/internal/post"
	"github.com/melodia-social/melodia/internal/recommendation"
	"github.com/melodia-social/melodia/internal/song"
	"github.com/melodia-social/melodia/internal/user"
	"github.com/melodia-social/melodia/pkg/auth"
	"github.com/melodia-social/melodia/pkg/catalog"
	"github.com/melodia-social/melodia/pkg/database"
	"github.com/melodia-social/melodia/pkg/logger"
	"github.com/melodia-social/melodia/pkg/moderation"
	"github.com/melodia-social/melodia/pkg/storage"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.New()

	auth.Init(cfg.JWTSecret, cfg.JWTResetSecret)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error conectando a la base de datos")
	}

	minioStorage, err := storage.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("error conectando a MinIO")
	}

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL)
	moderationClient := moderation.NewClient(cfg.ModerationBaseURL, cfg.ModerationAPIKey)
	mailer := auth.NewMailer(cfg)

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, mailer, log)
	userHandler := user.NewHandler(userService, minioStorage, cfg.CORSOrigins[0]+"/reset-password")

	songRepo := song.NewRepository(db)
	songService := song.NewService(songRepo, catalogClient, log)
	songHandler := song.NewHandler(songService)

	postRepo := post.NewRepository(db)
	postService := post.NewService(postRepo, songService, moderationClient, log)
	postHandler := post.NewHandler(postService)

	recService := recommendation.NewService(
		recommendation.NewCollector(db),
		recommendation.NewEnricher(catalogClient, log),
		recommendation.NewRepository(db),
		log,
	)
	recHandler := recommendation.NewHandler(recService, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	api := e.Group("/api")

	// Público
	api.POST("/users/register", userHandler.Register)
	api.POST("/users/login", userHandler.Login)
	api.POST("/users/forgot-password", userHandler.ForgotPassword)
	api.POST("/users/reset-password", userHandler.ResetPassword)
	api.GET("/songs/search", songHandler.Search)
	api.GET("/songs/:id", songHandler.GetSong)
	api.GET("/songs/:id/comments", songHandler.GetComments)
	api.GET("/news", songHandler.GetNews)

	// Autenticado
	authed := api.Group("", auth.RequireAuth())
	authed.GET("/users/me", userHandler.GetMe)
	authed.PUT("/users/me", userHandler.UpdateMe)
	authed.PUT("/users/me/avatar", userHandler.UploadAvatar)
	authed.POST("/users/:id/follow", userHandler.Follow)
	authed.DELETE("/users/:id/follow", userHandler.Unfollow)
	authed.GET("/users/:id/followers", userHandler.GetFollowers)
	authed.GET("/users/:id/following", userHandler.GetFollowing)

	authed.POST("/posts", postHandler.CreatePost)
	authed.GET("/posts/feed", postHandler.GetFeed)
	authed.GET("/posts/:id", postHandler.GetPost)
	authed.DELETE("/posts/:id", postHandler.DeletePost)
	authed.POST("/posts/:id/like", postHandler.Like)
	authed.DELETE("/posts/:id/like", postHandler.Unlike)
	authed.POST("/posts/:id/comments", postHandler.Comment)
	authed.GET("/posts/:id/comments", postHandler.GetComments)
	authed.POST("/posts/:id/report", postHandler.Report)

	authed.POST("/songs/:id/rating", songHandler.Rate)
	authed.GET("/songs/:id/ratings", songHandler.GetRatings)
	authed.POST("/songs/:id/comments", songHandler.Comment)

	authed.GET("/recommendations", recHandler.GetRecommendations)
	authed.GET("/recommendations/users", recHandler.GetUserRecommendations)
	authed.GET("/recommendations/analysis", recHandler.GetAnalysis)

	// Administración
	admin := api.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
	admin.GET("/users", userHandler.ListUsers)
	admin.PUT("/users/:id/ban", userHandler.BanUser)
	admin.PUT("/users/:id/unban", userHandler.UnbanUser)
	admin.GET("/stats", userHandler.GetAdminStats)
	admin.GET("/reports", postHandler.ListReports)
	admin.PUT("/reports/:id/resolve", postHandler.ResolveReport)

	log.Info().Str("puerto", cfg.Port).Msg("iniciando el servidor")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("el servidor terminó con error")
	}
}
