// Package server wires the data layer, services and HTTP routes for both the
// hosted API and the desktop build.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"retailpos/internal/adapter"
	"retailpos/internal/auth"
	"retailpos/internal/config"
	"retailpos/internal/database"
	"retailpos/internal/events"
	"retailpos/internal/handler"
	"retailpos/internal/identity"
	"retailpos/internal/middleware"
	"retailpos/internal/service"
	"retailpos/internal/store"
	"retailpos/internal/store/local"
	"retailpos/internal/store/remote"
	"retailpos/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Server holds the router and the resources Close must release.
type Server struct {
	Router  *gin.Engine
	Adapter *adapter.Adapter
	Hub     *websocket.Hub

	remote *gorm.DB
	engine *local.Engine
	redis  *redis.Client
}

// New connects the backends and builds the router. The websocket hub runs
// until ctx is cancelled.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	gormLogger := database.Logger(cfg.DBLogLevel)
	env := adapter.ParseEnvironment(cfg.Runtime)

	db, err := openRemote(ctx, cfg, env, gormLogger)
	if err != nil {
		return nil, err
	}

	profileSource := remote.NewProfileSource(db)
	provider := auth.NewProvider(db, profileSource, auth.LogMailer{}, cfg.JWTSecret, cfg.JWTTTL)
	remoteStore := remote.NewStore(db, identity.NewBridge(provider, profileSource, nil, cfg.ProfileMaxAge))

	srv := &Server{remote: db}

	var loader adapter.LocalLoader
	if env.UsesLocal() {
		loader = func(ctx context.Context) (store.DataStore, error) {
			path, err := local.ResolvePath(ctx, cfg.LocalDBDir, nil)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", store.ErrEngineUnavailable, err)
			}
			engine := local.NewEngine(path, gormLogger)
			localDB, err := engine.Open(ctx)
			if err != nil {
				return nil, err
			}
			srv.engine = engine
			bridge := identity.NewBridge(provider, profileSource, local.NewProfileStore(localDB), cfg.ProfileMaxAge)
			return local.NewStore(localDB, bridge), nil
		}
	}
	srv.Adapter = adapter.New(env, remoteStore, loader)
	log.Printf("[server] runtime %s, data backend %s", env, srv.Adapter.Backend(ctx))

	srv.Hub = websocket.NewHub(originAllowed(cfg.CORSOrigins))
	go srv.Hub.Run(ctx)

	publishers := events.Multi{srv.Hub}
	if cfg.RedisAddr != "" {
		client, err := events.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("[server] redis unavailable, events stay in-process: %v", err)
		} else {
			srv.redis = client
			publishers = append(publishers, events.NewRedisPublisher(client))
		}
	}

	auditService := service.NewAuditService(srv.Adapter)
	inventoryService := service.NewInventoryService(srv.Adapter, auditService, publishers)
	checkoutService := service.NewCheckoutService(srv.Adapter, auditService, publishers)
	statisticsService := service.NewStatisticsService(srv.Adapter)
	wholesalerService := service.NewWholesalerService(srv.Adapter)

	authLimit, err := middleware.RateLimit(cfg.AuthRateLimit)
	if err != nil {
		return nil, err
	}

	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"runtime": srv.Adapter.Environment(),
			"backend": srv.Adapter.Backend(c.Request.Context()),
			"clients": srv.Hub.ClientCount(),
		})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(srv.Hub, c, provider)
	})

	root := router.Group("")
	handler.NewAuthHandler(provider, srv.Adapter, auditService, cfg.ReleaseMode).RegisterRoutes(root, authLimit)
	handler.NewInventoryHandler(inventoryService, provider).RegisterRoutes(root)
	handler.NewSaleHandler(checkoutService, provider).RegisterRoutes(root)
	handler.NewWholesalerHandler(wholesalerService, provider).RegisterRoutes(root)
	handler.NewAuditHandler(auditService, provider).RegisterRoutes(root)
	handler.NewStatisticsHandler(statisticsService, provider).RegisterRoutes(root)

	srv.Router = router
	return srv, nil
}

// openRemote connects to the hosted database and migrates it. The server
// runtime needs it to start. Runtimes with a local store start without it:
// the pool stays lazy and the hosted schema is migrated on a later start.
func openRemote(ctx context.Context, cfg *config.Config, env adapter.Environment, gormLogger logger.Interface) (*gorm.DB, error) {
	if !env.UsesLocal() {
		db, err := database.NewConnection(cfg.DatabaseURL, gormLogger)
		if err != nil {
			return nil, err
		}
		if err := migrateRemote(ctx, db, cfg.EnableRLS); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := database.NewLazyConnection(cfg.DatabaseURL, gormLogger)
	if err != nil {
		return nil, err
	}
	if err := migrateRemote(ctx, db, cfg.EnableRLS); err != nil {
		log.Printf("[server] hosted database unavailable, continuing on the local store: %v", err)
	}
	return db, nil
}

func migrateRemote(ctx context.Context, db *gorm.DB, enableRLS bool) error {
	if err := remote.Migrate(ctx, db, enableRLS); err != nil {
		return fmt.Errorf("remote migration failed: %w", err)
	}
	if err := auth.Migrate(ctx, db); err != nil {
		return fmt.Errorf("auth migration failed: %w", err)
	}
	return nil
}

// Close releases the database pools and the redis client.
func (s *Server) Close() {
	if s.remote != nil {
		if sqlDB, err := s.remote.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.engine != nil {
		if err := s.engine.Close(); err != nil {
			log.Printf("[server] closing local database: %v", err)
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

func originAllowed(origins []string) func(string) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(origin string) bool { return allowed[origin] }
}
