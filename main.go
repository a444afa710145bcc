package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LovationAdmin/device-compare-api/config"
	"github.com/LovationAdmin/device-compare-api/handlers"
	"github.com/LovationAdmin/device-compare-api/middleware"
	"github.com/LovationAdmin/device-compare-api/routes"
	"github.com/LovationAdmin/device-compare-api/services"
	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var (
		snapshots services.SnapshotStore
		clicks    services.ClickStore
	)
	if db != nil {
		defer db.Close()
		log.Println("✅ Database connected successfully")

		if err := config.RunMigrations(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		snapshots = services.NewPostgresSnapshotStore(db)
		clicks = services.NewPostgresClickStore(db)
	} else {
		log.Println("⚠️  DATABASE_URL not set: snapshots and click history disabled")
	}

	client := services.NewCatalogClient(cfg.UpstreamBaseURL, cfg.CategoryEndpoints, cfg.UpstreamTimeout)
	catalog := services.NewCatalogService(client, snapshots, cfg.CacheTTL, cfg.UpstreamTimeout)

	wsHandler := handlers.NewWSHandler(cfg.CategoryAliases)
	tracker := services.NewTracker(cfg.TrackingURL, clicks, wsHandler)

	if db != nil {
		go scheduleCacheCleaning(ctx, catalog)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	go limiter.RunCleanup(ctx, time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())

	log.Printf("🌍 CORS: Allowing origins:")
	for _, origin := range cfg.AllowedOrigins {
		log.Printf("   - %s", origin)
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.RequestLogger())
	router.Use(limiter.Middleware())

	v1 := router.Group("/api/v1")
	{
		routes.SetupCatalogRoutes(v1,
			handlers.NewProductHandler(catalog, tracker, cfg.CategoryAliases, cfg.TrendingLimit),
			handlers.NewFeatureHandler(catalog, tracker, cfg.CategoryAliases),
		)
		routes.SetupWSRoutes(v1, wsHandler)

		if cfg.AdminEnabled() {
			admin := &handlers.AdminHandler{Clicks: clicks, Snapshot: catalog, Aliases: cfg.CategoryAliases}
			routes.SetupAdminRoutes(v1, admin, middleware.AdminTokens{
				Secret:   []byte(cfg.AdminJWTSecret),
				Issuer:   middleware.AdminIssuer,
				Duration: middleware.DefaultAdminTokenTTL,
			})
		} else {
			log.Println("⚠️  ADMIN_JWT_SECRET not set: admin routes disabled")
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	utils.LogStartup("device-compare-api", version, cfg.Port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server shutdown: %v", err)
	}
	wsHandler.Close()
	tracker.Wait()
}

func scheduleCacheCleaning(ctx context.Context, catalog *services.CatalogService) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	cleanExpiredCache(ctx, catalog)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanExpiredCache(ctx, catalog)
		}
	}
}

func cleanExpiredCache(ctx context.Context, catalog *services.CatalogService) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	rows, err := catalog.CleanExpiredSnapshots(ctx)
	if err != nil {
		log.Printf("❌ Cache cleanup failed: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("🧹 Cleaned %d expired cache entries", rows)
	}
}
