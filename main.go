package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/folio-studio/portfolio-api/handlers"
	"github.com/folio-studio/portfolio-api/internal/config"
	cvhandler "github.com/folio-studio/portfolio-api/internal/cv/handler"
	"github.com/folio-studio/portfolio-api/internal/cv/render"
	"github.com/folio-studio/portfolio-api/internal/cv/repository"
	cvservice "github.com/folio-studio/portfolio-api/internal/cv/service"
	"github.com/folio-studio/portfolio-api/internal/database"
	"github.com/folio-studio/portfolio-api/internal/mail"
	"github.com/folio-studio/portfolio-api/internal/portfolio"
	portfoliohandler "github.com/folio-studio/portfolio-api/internal/portfolio/handler"
	"github.com/folio-studio/portfolio-api/internal/renders"
	"github.com/folio-studio/portfolio-api/internal/sessions"
	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/folio-studio/portfolio-api/internal/tokens"
	"github.com/folio-studio/portfolio-api/internal/users"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/folio-studio/portfolio-api/pkg/metrics"
	"github.com/folio-studio/portfolio-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

// deps holds the backing services. Nil clients mean the in-memory fallback is in use.
type deps struct {
	mongo  *mongo.Client
	redis  *redis.Client
	minio  *storage.MinIOStore
	memory *storage.MemoryStore

	assets    storage.AssetStore
	pdf       render.PDFRenderer
	mailer    mail.Sender
	userSvc   *users.Service
	cvSvc     *cvservice.Service
	portfolio *portfolio.Service
}

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s mongo=%v redis=%v minio=%v smtp=%v",
		cfg.Server.Environment, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Endpoint != "", cfg.SMTP.Host != "")

	ctx := context.Background()
	d := connect(ctx, cfg)
	defer func() {
		if d.mongo != nil {
			_ = d.mongo.Disconnect(context.Background())
		}
		if d.redis != nil {
			_ = d.redis.Close()
		}
	}()

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, d)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("portfolio api listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// connect dials the configured backends and falls back to in-process
// implementations for anything that is missing or unreachable.
func connect(ctx context.Context, cfg *config.Config) *deps {
	d := &deps{}

	if cfg.Redis.Host != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rc.Close()
		} else {
			d.redis = rc
			sessions.SetRevocationClient(rc)
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.Storage.Endpoint != "" {
		ms, err := storage.NewMinIOStore(cfg.Storage)
		if err != nil {
			logger.Warnf("asset host unavailable, keeping uploads in memory: %v", err)
		} else {
			d.minio = ms
			d.assets = ms
		}
	}
	if d.assets == nil {
		d.memory = storage.NewMemoryStore(memoryAssetBase(cfg))
		d.assets = d.memory
	}

	if cfg.SMTP.Host != "" {
		d.mailer = mail.NewSMTPSender(cfg.SMTP)
	} else {
		logger.Warnf("SMTP not configured; contact messages are only logged")
		d.mailer = mail.LogSender{}
	}

	d.pdf = render.NewChromeRenderer(cfg.Render)

	var (
		cvRepo    repository.Repository = repository.NewMemoryRepo()
		renderLog                       = renders.NewStore(nil)
		userRepo  users.UserRepository  = users.NewMemoryUserRepository()
	)
	d.portfolio = portfolio.NewMemoryService(d.assets)

	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("%v; using in-memory stores", err)
		} else {
			d.mongo = client
			db := client.Database(cfg.MongoDB.Database)

			ur := users.NewMongoUserRepository(db.Collection("users"))
			if err := ur.EnsureIndexes(ctx); err != nil {
				logger.Warnf("users indexes: %v", err)
			}
			userRepo = ur
			cvRepo = repository.NewMongoRepo(db.Collection("cv"))
			renderLog = renders.NewStore(db.Collection("cv_renders"))

			categories := portfolio.NewMongoStore[portfolio.Category](db.Collection("categories"))
			skills := portfolio.NewMongoStore[portfolio.Skill](db.Collection("skills"))
			if err := categories.EnsureUniqueIndex(ctx, "name"); err != nil {
				logger.Warnf("categories indexes: %v", err)
			}
			if err := skills.EnsureUniqueIndex(ctx, "name"); err != nil {
				logger.Warnf("skills indexes: %v", err)
			}
			d.portfolio = portfolio.NewService(
				categories,
				portfolio.NewMongoStore[portfolio.Work](db.Collection("works")),
				skills,
				portfolio.NewMongoStore[portfolio.Review](db.Collection("reviews")),
				d.assets,
			)
			logger.Infof("connected to MongoDB database %s", cfg.MongoDB.Database)
		}
	}

	d.userSvc = users.NewService(userRepo)
	d.cvSvc = cvservice.New(cvRepo, d.assets, d.pdf, renderLog)
	return d
}

// memoryAssetBase is the URL prefix of in-memory assets. Without a configured
// public URL it points at this server, so asset links in rendered PDFs resolve.
func memoryAssetBase(cfg *config.Config) string {
	if cfg.Storage.PublicBaseURL != "" {
		return cfg.Storage.PublicBaseURL
	}
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "5000"
	}
	return "http://" + net.JoinHostPort(host, port) + "/assets"
}

func newRouter(cfg *config.Config, d *deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(strings.Split(cfg.CORS.AllowedOrigin, ",")))
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(d.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready, checks := readiness(c.Request.Context(), cfg, d)
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": checks, "uptime": time.Since(startTime).String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	if d.memory != nil {
		r.GET("/assets/*key", func(c *gin.Context) {
			data, ct, ok := d.memory.Get(strings.TrimPrefix(c.Param("key"), "/"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"message": "Asset not found"})
				return
			}
			c.Data(http.StatusOK, ct, data)
		})
	}

	protect := middleware.AuthMiddleware(tokens.NewHMACVerifier(cfg), cfg.JWT.CookieName, d.userSvc.IsAdmin)

	api := r.Group("/api")
	var loginLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		loginLimit = middleware.LoginRateLimitMiddleware(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	}
	handlers.NewAuthHandler(cfg, d.userSvc).Register(api, loginLimit)
	handlers.NewContactHandler(d.assets, d.mailer, cfg.Server.MaxUploadBytes).Register(api)
	cvhandler.RegisterCVRoutes(r, d.cvSvc, protect, cfg.Server.MaxUploadBytes)
	portfoliohandler.RegisterRoutes(r, d.portfolio, protect, cfg.Server.MaxUploadBytes)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Route %s not found", c.Request.URL.Path)})
	})
	return r
}

// readiness pings every configured backend. Backends running on their
// in-memory fallback report "memory" and do not fail the check.
func readiness(ctx context.Context, cfg *config.Config, d *deps) (bool, map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ready := true
	checks := map[string]string{}
	check := func(name string, configured bool, ping func() error) {
		switch {
		case ping == nil && configured:
			checks[name] = "unavailable"
			ready = false
		case ping == nil:
			checks[name] = "memory"
		default:
			if err := ping(); err != nil {
				checks[name] = "error"
				ready = false
				return
			}
			checks[name] = "ok"
		}
	}

	var mongoPing, redisPing, minioPing func() error
	if d.mongo != nil {
		mongoPing = func() error { return d.mongo.Ping(ctx, nil) }
	}
	if d.redis != nil {
		redisPing = func() error { return d.redis.Ping(ctx).Err() }
	}
	if d.minio != nil {
		minioPing = func() error { return d.minio.Ping(ctx) }
	}
	check("mongodb", cfg.MongoDB.URI != "", mongoPing)
	check("redis", cfg.Redis.Host != "" && cfg.RateLimit.UseRedis, redisPing)
	check("storage", cfg.Storage.Endpoint != "", minioPing)
	return ready, checks
}
