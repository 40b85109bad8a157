package main

import (
	"log"
	"ticket-backoffice/config"
	"ticket-backoffice/internal/cache"
	"ticket-backoffice/internal/database"
	"ticket-backoffice/internal/handler"
	"ticket-backoffice/internal/middleware"
	"ticket-backoffice/internal/repository"
	"ticket-backoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	codeRepo := repository.NewCodeRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	scanLogRepo := repository.NewScanLogRepository(pool)
	tableRepo := repository.NewTableRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	// services
	scanService := service.NewScanService(eventRepo, codeRepo, ticketRepo, scanLogRepo, cfg.Scan)
	eventService := service.NewEventService(pool, eventRepo, codeRepo, reservationRepo)
	codeService := service.NewCodeService(eventRepo, codeRepo, ticketRepo)
	reservationService := service.NewReservationService(eventRepo, tableRepo, reservationRepo, codeRepo)
	reportService := service.NewReportService(eventRepo, scanLogRepo)

	limiter := cache.NewRedisRateLimiter(rdb, cfg.Scan.RateLimitWindow, cfg.Scan.RateLimitMax)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// door staff scan endpoints, rate limited per (ip, staff)
	doorGroup := router.Group("/",
		middleware.StaffAuth(cfg.Auth.JWTSecret),
		middleware.RequireRole(middleware.RoleDoor, middleware.RoleAdmin, middleware.RoleSuperadmin),
		middleware.ScanRateLimit(limiter),
	)
	handler.NewScanHandler(scanService).RegisterRoutes(doorGroup)

	// back-office management endpoints
	adminGroup := router.Group("/",
		middleware.StaffAuth(cfg.Auth.JWTSecret),
		middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSuperadmin),
	)
	handler.NewEventHandler(eventService).RegisterRoutes(adminGroup)
	handler.NewCodeHandler(codeService).RegisterRoutes(adminGroup)
	handler.NewReservationHandler(reservationService).RegisterRoutes(adminGroup)
	handler.NewReportHandler(reportService).RegisterRoutes(adminGroup)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
