package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/chatbot-api/internal/config"
	"github.com/thereayou/chatbot-api/internal/database"
	"github.com/thereayou/chatbot-api/internal/handlers"
	"github.com/thereayou/chatbot-api/internal/middleware"
	"github.com/thereayou/chatbot-api/internal/services"
	"github.com/thereayou/chatbot-api/internal/websocket"
	"github.com/thereayou/chatbot-api/pkg/auth"
	"github.com/thereayou/chatbot-api/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *websocket.Hub
	Limiter    *middleware.RateLimiter

	cfg *config.Config
	log *logger.Logger
}

func NewServer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.Database); err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	var (
		rdb       *redis.Client
		blacklist auth.TokenBlacklist = auth.NopBlacklist{}
	)
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		blacklist = auth.NewRedisBlacklist(rdb)
	} else {
		log.Warn("REDIS_URL is not set, logout is disabled")
	}

	users := services.NewUserService(dbConn)
	messages := services.NewMessageService(dbConn, services.MessageOptions{
		SeedWelcome: cfg.Chat.SeedWelcomeMessage,
	})

	created, err := users.EnsureAdmin(ctx, cfg.Auth.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		log.Info("admin user created", zap.String("username", services.AdminUsername))
	}

	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hub := websocket.NewHub(log)
	limiter := middleware.NewRateLimiter(cfg.Limit.PerSecond, cfg.Limit.Burst)
	metrics := middleware.NewMetrics()

	router, err := NewRouter(log, Endpoints{
		Auth:           handlers.NewAuthHandler(users, jwtMgr, blacklist),
		Users:          handlers.NewUserHandler(users),
		Messages:       handlers.NewHTTPMessageHandler(messages, hub, metrics),
		WS:             handlers.NewWebSocketHandler(hub),
		Health:         handlers.Health(dbConn),
		RequireAuth:    middleware.AuthMiddleware(jwtMgr, blacklist, users),
		RequireWSAuth:  middleware.WSAuthMiddleware(jwtMgr, blacklist, users),
		LoginLimit:     limiter.Middleware(),
		Metrics:        metrics,
		LogoutEnabled:  rdb != nil,
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Limiter:    limiter,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Run слушает порт до отмены ctx, затем корректно останавливается
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run()
	go s.Limiter.Cleanup(ctx.Done())

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.close()
			return fmt.Errorf("server run: %w", err)
		}
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.close()
	return err
}

func (s *Server) close() {
	s.Hub.Stop()
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.log.Warn("close redis", zap.Error(err))
		}
	}
	if err := s.DB.Close(); err != nil {
		s.log.Warn("close database", zap.Error(err))
	}
}
