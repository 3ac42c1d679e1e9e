package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/XXRadeonXFX/student-management-api/handlers"
	"github.com/XXRadeonXFX/student-management-api/internal/audit"
	"github.com/XXRadeonXFX/student-management-api/internal/cache"
	"github.com/XXRadeonXFX/student-management-api/internal/config"
	"github.com/XXRadeonXFX/student-management-api/internal/database"
	"github.com/XXRadeonXFX/student-management-api/internal/students"
	"github.com/XXRadeonXFX/student-management-api/internal/students/handler"
	"github.com/XXRadeonXFX/student-management-api/internal/tokens"
	"github.com/XXRadeonXFX/student-management-api/pkg/logger"
	"github.com/XXRadeonXFX/student-management-api/pkg/metrics"
	"github.com/XXRadeonXFX/student-management-api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging first (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v auth_required=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Auth.Required)

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate limiter and list cache can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races; on
	// exhausted retries the service stays up on the seeded sample dataset.
	ctx := context.Background()
	var mongoClient *mongo.Client
	connected := false
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				connected = true
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if !connected {
			logger.Warnf("could not connect to MongoDB after %d attempts — running on sample data", maxAttempts)
		}
	} else {
		logger.Warnf("MONGO_URI not set — running on sample data")
	}

	// Pick the repository and wire the service
	var repo students.Repository
	var auditStore *audit.Store
	if connected {
		defer func() { _ = mongoClient.Disconnect(ctx) }()
		db := mongoClient.Database(cfg.MongoDB.Database)
		repo = students.NewMongoRepository(db.Collection("students"))
		auditStore = audit.NewStore(db.Collection("events"))
	} else {
		repo = students.NewSampleRepository()
	}

	var listCache *cache.Cache
	if redisClient != nil {
		listCache = cache.New(redisClient, "students:", cfg.Cache.TTL)
	}
	svc := students.NewService(repo, listCache, auditStore)

	// Optional bearer-token protection of mutating routes
	var mutating []gin.HandlerFunc
	if cfg.Auth.Required {
		if cfg.Auth.JWTSecret == "" {
			logger.Fatalf("AUTH_REQUIRED is set but JWT_SECRET is empty")
		}
		ver := tokens.NewHMACVerifier(cfg.Auth.JWTSecret)
		mutating = []gin.HandlerFunc{middleware.AuthMiddleware(ver), middleware.RequireRole("admin")}
		logger.Infof("mutating routes require an admin bearer token")
	}

	h := handler.NewStudentHandler(svc, handler.Options{
		MongoConfigured: cfg.MongoDB.URI != "",
		Connected:       connected,
		Mutating:        mutating,
	})
	h.Register(r)
	handlers.RegisterSwagger(r)

	// Readiness: strict probe, 503 when the backing store does not answer
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if err := svc.Ping(c.Request.Context()); err != nil {
			deps["storage"] = false
			ready = false
		} else {
			deps["storage"] = true
		}

		if redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
			// redis is an accelerator, not a hard dependency
		} else {
			deps["redis"] = cfg.Redis.Host == ""
		}

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting student-management-api on %s (mode=%s)", addr, map[bool]string{true: "connected", false: "fallback"}[connected])
	// run server in goroutine and keep process alive — prevents the container
	// from exiting silently if r.Run ever returns.
	go func() {
		if err := r.Run(addr); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()
	select {}
}
