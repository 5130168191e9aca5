package server

import (
	"net/http"
	"time"

	"anoa.com/municipalservices/internal/config"
	"anoa.com/municipalservices/internal/middleware"
	"anoa.com/municipalservices/pkg/database"
	"anoa.com/municipalservices/pkg/token"

	addressHttp "anoa.com/municipalservices/internal/modules/address/delivery/http"
	addressRepo "anoa.com/municipalservices/internal/modules/address/repository"
	addressService "anoa.com/municipalservices/internal/modules/address/service"

	authHttp "anoa.com/municipalservices/internal/modules/auth/delivery/http"
	loginRepo "anoa.com/municipalservices/internal/modules/auth/repository"
	authService "anoa.com/municipalservices/internal/modules/auth/service"

	billHttp "anoa.com/municipalservices/internal/modules/bill/delivery/http"
	billRepo "anoa.com/municipalservices/internal/modules/bill/repository"
	billService "anoa.com/municipalservices/internal/modules/bill/service"

	buildingHttp "anoa.com/municipalservices/internal/modules/building/delivery/http"
	buildingRepo "anoa.com/municipalservices/internal/modules/building/repository"
	buildingService "anoa.com/municipalservices/internal/modules/building/service"

	citizenHttp "anoa.com/municipalservices/internal/modules/citizen/delivery/http"
	citizenRepo "anoa.com/municipalservices/internal/modules/citizen/repository"
	citizenService "anoa.com/municipalservices/internal/modules/citizen/service"

	notiHttp "anoa.com/municipalservices/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/municipalservices/internal/modules/notification/repository"
	notifService "anoa.com/municipalservices/internal/modules/notification/service"

	occupancyHttp "anoa.com/municipalservices/internal/modules/occupancy/delivery/http"
	occupancyRepo "anoa.com/municipalservices/internal/modules/occupancy/repository"
	occupancyService "anoa.com/municipalservices/internal/modules/occupancy/service"

	requestHttp "anoa.com/municipalservices/internal/modules/request/delivery/http"
	requestRepo "anoa.com/municipalservices/internal/modules/request/repository"
	requestService "anoa.com/municipalservices/internal/modules/request/service"

	searchService "anoa.com/municipalservices/internal/modules/search/service"

	utilityHttp "anoa.com/municipalservices/internal/modules/utility/delivery/http"
	utilityRepo "anoa.com/municipalservices/internal/modules/utility/repository"
	utilityService "anoa.com/municipalservices/internal/modules/utility/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	loginMaxAttempts = 5
	loginLockWindow  = 15 * time.Minute
)

// Deps are the collaborators the server is assembled from. Redis and Search
// are optional; without them lockout, live notifications and full-text
// citizen search are disabled.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Search   meilisearch.ServiceManager
	Maker    token.Maker
	Gatherer prometheus.Gatherer
	Metrics  *middleware.Metrics
	Log      *zap.Logger
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config
	db := deps.DB
	log := deps.Log
	transactor := database.NewTransactor(db)

	logins := loginRepo.NewLoginRepository(db)
	citizens := citizenRepo.NewCitizenRepository(db)
	buildings := buildingRepo.NewBuildingRepository(db)
	addresses := addressRepo.NewAddressRepository(db)

	limiter := authService.NewLoginLimiter(deps.Redis, loginMaxAttempts, loginLockWindow)
	authSvc := authService.NewAuthService(logins, deps.Maker, limiter, cfg.SessionTTL, log)
	authHandler := authHttp.NewAuthHandler(authSvc, cfg.CookieSecure)

	var index searchService.CitizenIndex
	if deps.Search != nil {
		index = searchService.NewMeiliSearchService(deps.Search, log)
	}
	citizenSvc := citizenService.NewCitizenService(citizens, logins, transactor, index, log)
	citizenHandler := citizenHttp.NewCitizenHandler(citizenSvc)

	buildingSvc := buildingService.NewBuildingService(buildings, addresses, transactor)
	buildingHandler := buildingHttp.NewBuildingHandler(buildingSvc)

	addressSvc := addressService.NewAddressService(addresses, buildings, transactor)
	addressHandler := addressHttp.NewAddressHandler(addressSvc)

	occupancySvc := occupancyService.NewOccupancyService(occupancyRepo.NewOccupancyRepository(db), addresses, citizens, transactor)
	occupancyHandler := occupancyHttp.NewOccupancyHandler(occupancySvc)

	// Notification Module
	notificationSvc := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), logins, deps.Redis, deps.Metrics, log)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, deps.Redis, cfg.AllowedOrigins, log)

	utilitySvc := utilityService.NewUtilityService(utilityRepo.NewUtilityRepository(db), deps.Metrics, log)
	utilityHandler := utilityHttp.NewUtilityHandler(utilitySvc)

	billSvc := billService.NewBillService(billRepo.NewBillRepository(db), addresses, logins, utilitySvc, notificationSvc, transactor, deps.Metrics, log)
	billHandler := billHttp.NewBillHandler(billSvc)

	requestSvc := requestService.NewRequestService(requestRepo.NewRequestRepository(db), citizens, logins, notificationSvc, transactor, log)
	requestHandler := requestHttp.NewRequestHandler(requestSvc)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	s := &Server{engine: router, db: db, redisClient: deps.Redis}

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log, "/healthz", "/metrics"))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Handler())
	}
	router.Use(middleware.Deadline(cfg.RequestTimeout))

	router.GET("/healthz", s.health)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	authMiddleware := middleware.NewAuthMiddleware(deps.Maker)

	// Public routes (no auth required)
	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	admin := authMiddleware.RequireAdmin()
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.PATCH("/auth/change-password/:email", authHandler.ChangePassword)

		// Citizen administration
		citizensGroup := protected.Group("/citizens", admin)
		{
			citizensGroup.GET("", citizenHandler.ListCitizens)
			citizensGroup.POST("", citizenHandler.CreateCitizen)
			citizensGroup.GET("/search", citizenHandler.SearchCitizens)
			citizensGroup.GET("/:citizen_id", citizenHandler.GetCitizen)
			citizensGroup.PATCH("/:citizen_id", citizenHandler.UpdateCitizen)
			citizensGroup.DELETE("/:citizen_id", citizenHandler.DeleteCitizen)
			citizensGroup.POST("/:citizen_id/login", citizenHandler.CreateLogin)
			citizensGroup.DELETE("/:citizen_id/login", citizenHandler.DeleteLogin)
		}

		// Directory
		protected.GET("/addresses/all", addressHandler.ListAllAddresses)
		protected.GET("/buildings", buildingHandler.ListBuildings)
		protected.POST("/buildings", admin, buildingHandler.CreateBuilding)
		protected.GET("/buildings/types", buildingHandler.ListBuildingTypes)
		protected.GET("/buildings/:building_id", buildingHandler.GetBuilding)
		protected.DELETE("/buildings/:building_id", admin, buildingHandler.DeleteBuilding)

		protected.GET("/buildings/:building_id/addresses", addressHandler.ListAddresses)
		protected.POST("/buildings/:building_id/addresses", admin, addressHandler.AddAddress)
		protected.GET("/buildings/:building_id/addresses/:address_id", addressHandler.GetAddress)
		protected.PATCH("/buildings/:building_id/addresses/:address_id", admin, addressHandler.UpsertAddress)
		protected.DELETE("/buildings/:building_id/addresses/:address_id", admin, addressHandler.DeleteAddress)

		occupants := "/buildings/:building_id/addresses/:address_id/citizens"
		protected.GET(occupants, occupancyHandler.ListOccupants)
		protected.POST(occupants, admin, occupancyHandler.LinkCitizen)
		protected.PATCH(occupants+"/:citizen_id", admin, occupancyHandler.UpdateOccupancy)
		protected.DELETE(occupants+"/:citizen_id", admin, occupancyHandler.UnlinkCitizen)

		// Billing
		protected.GET("/utilities", utilityHandler.ListUtilities)
		protected.GET("/utilities/types", utilityHandler.ListUtilityTypes)
		protected.PATCH("/utilities/:utility_id", admin, utilityHandler.UpdateUtility)

		protected.GET("/bills", billHandler.ViewBills)
		protected.POST("/bills", admin, billHandler.CreateBill)
		protected.GET("/bills/:bill_id", billHandler.GetBill)
		protected.PATCH("/bills/:bill_id", admin, billHandler.UpdateBill)
		protected.DELETE("/bills/:bill_id", admin, billHandler.DeleteBill)

		// Service requests
		protected.GET("/requests", requestHandler.ListRequests)
		protected.POST("/requests", requestHandler.CreateRequest)
		protected.GET("/requests/citizen/:citizen_id", requestHandler.ListByCitizen)
		protected.GET("/requests/:request_id", requestHandler.GetRequest)
		protected.PATCH("/requests/:request_id", requestHandler.UpdateRequest)
		protected.DELETE("/requests/:request_id", requestHandler.DeleteRequest)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
		protected.DELETE("/notifications/:notification_id", notificationHandler.DeleteNotification)
	}

	return s
}

// health reports whether postgres and, when configured, redis answer a ping.
func (s *Server) health(c *gin.Context) {
	ctx := c.Request.Context()
	status := gin.H{"database": "ok"}
	code := http.StatusOK

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if s.redisClient != nil {
		status["redis"] = "ok"
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, status)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
