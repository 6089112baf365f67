package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/verdantops/greenscore/internal/database"
	"github.com/verdantops/greenscore/internal/errors"
	"github.com/verdantops/greenscore/internal/ingest"
	"github.com/verdantops/greenscore/internal/leaderboard"
	"github.com/verdantops/greenscore/internal/monitoring"
	"github.com/verdantops/greenscore/internal/ratelimit"
	"github.com/verdantops/greenscore/internal/scoring"
	"github.com/verdantops/greenscore/internal/security"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	port := getEnvOrDefault("PORT", "8080")
	scoringConfigPath := getEnvOrDefault("SCORING_CONFIG", "./config/scoring.json")
	aliasTablePath := getEnvOrDefault("ALIAS_TABLE", "./config/aliases.json")
	ipLimitPerMin := getEnvIntOrDefault("RATE_LIMIT_PER_MIN", 60)

	// Load scoring configuration
	cfg, err := scoring.LoadConfig(scoringConfigPath)
	if err != nil {
		appErr := errors.NewConfigurationError("Failed to load scoring config", err)
		slog.Error(appErr.Error(), "path", scoringConfigPath)
		os.Exit(1)
	}

	aliasTable, err := ingest.LoadAliasTable(aliasTablePath)
	if err != nil {
		appErr := errors.NewConfigurationError("Failed to load alias table", err)
		slog.Error(appErr.Error(), "path", aliasTablePath)
		os.Exit(1)
	}

	engine, err := scoring.NewEngineWithAliases(cfg, aliasTable.Attributes)
	if err != nil {
		appErr := errors.NewConfigurationError("Invalid scoring config", err)
		slog.Error(appErr.Error(), "path", scoringConfigPath)
		os.Exit(1)
	}

	// Initialize database and repository
	db, err := database.NewDB(dataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer errors.SafeClose(db, "database")

	repo := database.NewRepository(db)

	// Initialize rankings service
	rankingService := leaderboard.NewService(repo, engine)

	// Warm up rankings cache and start auto-refresh
	go func() {
		slog.Info("Warming up rankings cache")
		rankingService.WarmCache()
		rankingService.StartAutoRefresh(10 * time.Minute)
	}()

	r := gin.New()

	// Initialize monitoring system
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// Add monitoring middleware first (to capture all requests)
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	// Add error handling middleware
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(security.SecurityHeadersMiddleware())

	// CORS for the reporting frontend
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{getEnvOrDefault("CORS_ORIGIN", "http://localhost:5173")}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Request-ID")
	r.Use(cors.New(corsConfig))

	// Per-IP rate limiting
	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.IPLimitPerMin = ipLimitPerMin
	limiter := ratelimit.NewRateLimiter(limiterConfig, appMetrics)
	r.Use(ratelimit.Middleware(limiter, appMetrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"metrics":   appMetrics.GetStats(),
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"metrics":    appMetrics.GetStats(),
			"db_pool":    db.GetPoolStats(),
			"cache":      rankingService.GetCacheStats(),
			"rate_limit": limiter.GetStats(),
		})
	})

	api := r.Group("/api")

	// Import a batch of questionnaire rows for one rater category
	api.POST("/evaluations", func(c *gin.Context) {
		var req struct {
			Category string       `json:"category" binding:"required"`
			Rows     []ingest.Row `json:"rows" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("Invalid import payload", err.Error())
			c.Error(appErr)
			return
		}

		category := scoring.Category(req.Category)
		if category != scoring.CategoryPropertyManager && category != scoring.CategoryFunctionalDept {
			appErr := errors.NewValidationError("Unknown rater category", req.Category)
			c.Error(appErr)
			return
		}

		start := time.Now()
		imported := 0
		rejected := make(map[string]string)

		for i, row := range req.Rows {
			supplier, record, err := aliasTable.BuildRecord(category, row)
			if err != nil {
				rejected[strconv.Itoa(i)] = err.Error()
				continue
			}

			supplierID, err := repo.UpsertSupplier(supplier, aliasTable.ServiceAreaOf(row))
			if err != nil {
				c.Error(errors.NewInternalError("Failed to store supplier", err))
				return
			}
			if err := repo.InsertEvaluation(supplierID, record); err != nil {
				c.Error(errors.NewInternalError("Failed to store evaluation", err))
				return
			}
			imported++
		}

		appMetrics.AddEvaluationsImported(imported)
		appLogger.ImportLogger(req.Category, imported, len(rejected), time.Since(start))

		// Stored data changed; cached rankings are stale
		rankingService.Invalidate()

		c.JSON(http.StatusOK, gin.H{
			"imported": imported,
			"rejected": rejected,
		})
	})

	api.GET("/suppliers", func(c *gin.Context) {
		suppliers, err := repo.ListSuppliers()
		if err != nil {
			c.Error(errors.NewInternalError("Failed to list suppliers", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"suppliers": suppliers,
			"total":     len(suppliers),
		})
	})

	api.PUT("/suppliers/:name/service-info", func(c *gin.Context) {
		name := c.Param("name")

		var req struct {
			ProjectCount int     `json:"project_count"`
			ProjectNames string  `json:"project_names"`
			ProjectRatio float64 `json:"project_ratio"`
			Remarks      string  `json:"remarks"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.NewValidationError("Invalid service info payload", err.Error()))
			return
		}

		err := repo.UpdateServiceInfo(name, req.ProjectCount, req.ProjectNames, req.ProjectRatio, req.Remarks)
		if err == sql.ErrNoRows {
			c.Error(errors.NewNotFoundError("supplier", name))
			return
		}
		if err != nil {
			c.Error(errors.NewInternalError("Failed to update service info", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "service info updated", "supplier": name})
	})

	api.GET("/suppliers/:name/score", func(c *gin.Context) {
		name := c.Param("name")

		start := time.Now()
		result, err := rankingService.ScoreSupplier(name)
		if err != nil {
			c.Error(errors.NewInternalError("Failed to score supplier", err))
			return
		}
		if result == nil {
			c.Error(errors.NewNotFoundError("supplier", name))
			return
		}

		appMetrics.IncrementScoringRun()
		appLogger.ScoringLogger(1, result.EvaluationCount, time.Since(start), false)

		c.JSON(http.StatusOK, result)
	})

	api.GET("/rankings", func(c *gin.Context) {
		area := c.Query("area")
		limit := 50
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
				limit = l
			}
		}

		start := time.Now()
		response, err := rankingService.Rankings(area, limit)
		if err != nil {
			c.Error(errors.NewInternalError("Failed to compute rankings", err))
			return
		}

		appMetrics.IncrementScoringRun()
		appLogger.ScoringLogger(response.Total, 0, time.Since(start), false)

		c.JSON(http.StatusOK, response)
	})

	api.GET("/dimensions/:category", func(c *gin.Context) {
		category := scoring.Category(c.Param("category"))

		names := scoring.DimensionNames(category)
		if names == nil {
			c.Error(errors.NewValidationError("Unknown rater category", c.Param("category")))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"category":   category,
			"dimensions": names,
			"weights":    engine.Config().DimensionWeights[category],
		})
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
