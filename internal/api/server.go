package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/tippspiel/tippspiel-api/docs"
	"github.com/tippspiel/tippspiel-api/internal/api/handler/v1"
	"github.com/tippspiel/tippspiel-api/internal/api/middleware"
	"github.com/tippspiel/tippspiel-api/internal/cache"
	"github.com/tippspiel/tippspiel-api/internal/config"
	"github.com/tippspiel/tippspiel-api/internal/repository"
	"github.com/tippspiel/tippspiel-api/internal/repository/dao"
	"github.com/tippspiel/tippspiel-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB, redisClient *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	var standingsCache service.StandingsCache
	if redisClient != nil {
		ttl := time.Duration(conf.Redis.StandingsTTLSeconds) * time.Second
		standingsCache = cache.NewStandingsCache(redisClient, ttl)
	}

	authHandler := s.initAuthHandler(db)
	roundHandler := s.initRoundHandler(db, standingsCache)
	predictionHandler := s.initPredictionHandler(db, standingsCache)
	standingsHandler := s.initStandingsHandler(db, standingsCache)
	s.MountHandlers(authHandler, roundHandler, predictionHandler, standingsHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initRoundHandler(db *gorm.DB, standingsCache service.StandingsCache) *v1.RoundHandler {
	roundRepo := repository.NewRoundRepository(dao.NewRoundDAO(db))
	predRepo := repository.NewPredictionRepository(dao.NewPredictionDAO(db))
	userSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	svc := service.NewRoundService(roundRepo, predRepo, standingsCache)
	handler := v1.NewRoundHandler(svc, userSvc)

	return handler
}

func (s *Server) initPredictionHandler(db *gorm.DB, standingsCache service.StandingsCache) *v1.PredictionHandler {
	predRepo := repository.NewPredictionRepository(dao.NewPredictionDAO(db))
	roundRepo := repository.NewRoundRepository(dao.NewRoundDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewPredictionService(predRepo, roundRepo, userRepo, standingsCache)
	handler := v1.NewPredictionHandler(svc)

	return handler
}

func (s *Server) initStandingsHandler(db *gorm.DB, standingsCache service.StandingsCache) *v1.StandingsHandler {
	predRepo := repository.NewPredictionRepository(dao.NewPredictionDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewStandingsService(predRepo, userRepo, standingsCache)
	handler := v1.NewStandingsHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	roundHandler *v1.RoundHandler,
	predictionHandler *v1.PredictionHandler,
	standingsHandler *v1.StandingsHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/rounds", roundHandler.HandleListRounds)
		authed.POST("/rounds", roundHandler.HandleCreateRound)
		authed.DELETE("/rounds/:roundID", roundHandler.HandleDeleteRound)
		authed.PUT("/rounds/:roundID/status", roundHandler.HandleUpdateRoundStatus)
		authed.POST("/rounds/:roundID/score", roundHandler.HandleScoreRound)
		authed.POST("/rounds/:roundID/fixtures", roundHandler.HandleAddFixtures)
		authed.PUT("/fixtures/:fixtureID/result", roundHandler.HandleEnterResult)

		authed.GET("/rounds/active", predictionHandler.HandleGetActiveRound)
		authed.POST("/rounds/:roundID/predictions", predictionHandler.HandleSubmitPredictions)
		authed.POST("/rounds/:roundID/predictions/random", predictionHandler.HandleGenerateRandomPredictions)

		authed.GET("/standings", standingsHandler.HandleGetStandings)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Tippspiel API"
	docs.SwaggerInfo.Description = "Football score-prediction competition API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
