package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	"github.com/thereayou/chatbot-api/internal/handlers"
	"github.com/thereayou/chatbot-api/internal/middleware"
	"github.com/thereayou/chatbot-api/pkg/logger"
)

// Endpoints собирает хендлеры и middleware для роутера
type Endpoints struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Messages *handlers.HTTPMessageHandler
	WS       *handlers.WebSocketHandler
	Health   gin.HandlerFunc

	RequireAuth   gin.HandlerFunc
	RequireWSAuth gin.HandlerFunc
	LoginLimit    gin.HandlerFunc
	Metrics       *middleware.Metrics

	// /logout регистрируется только при настроенном Redis
	LogoutEnabled bool

	// от кого принимать X-Forwarded-For при определении IP клиента
	TrustedProxies []string
}

func NewRouter(log *logger.Logger, e Endpoints) (*gin.Engine, error) {
	r := gin.New()
	r.RedirectTrailingSlash = false
	if err := r.SetTrustedProxies(lo.Compact(e.TrustedProxies)); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(middleware.Logging(log), middleware.Recovery(), e.Metrics.Middleware())

	r.GET("/health", e.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(e.Metrics.Registry, promhttp.HandlerOpts{})))

	APIEndpoints(r, e)
	return r, nil
}

func APIEndpoints(r *gin.Engine, e Endpoints) {
	// Auth endpoints
	handle(r, http.MethodPost, "/token", e.LoginLimit, e.Auth.Token)
	handle(r, http.MethodPost, "/users/", e.Users.Register)

	// API endpoints
	api := r.Group("", e.RequireAuth)
	{
		handle(api, http.MethodGet, "/users/me", e.Users.GetMe)
		if e.LogoutEnabled {
			handle(api, http.MethodPost, "/logout", e.Auth.Logout)
		}

		handle(api, http.MethodGet, "/messages/", e.Messages.ListMessages)
		handle(api, http.MethodPost, "/messages/", e.Messages.CreateMessage)
		handle(api, http.MethodGet, "/messages/:id", e.Messages.GetMessage)
		handle(api, http.MethodPut, "/messages/:id", e.Messages.UpdateMessage)
		handle(api, http.MethodDelete, "/messages/:id", e.Messages.DeleteMessage)

		handle(api, http.MethodPost, "/chatbot/respond/", e.Messages.Respond)
	}

	r.GET("/ws", e.RequireWSAuth, e.WS.HandleWebSocket)
}

// handle регистрирует маршрут со слешем на конце и без
func handle(r gin.IRoutes, method, path string, h ...gin.HandlerFunc) {
	r.Handle(method, path, h...)
	if strings.HasSuffix(path, "/") {
		r.Handle(method, strings.TrimSuffix(path, "/"), h...)
	} else {
		r.Handle(method, path+"/", h...)
	}
}
