// Package server assembles the gin engine from handlers and middleware.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"staffadmin/internal/handler"
	"staffadmin/internal/middleware"
	"staffadmin/internal/permission"
	"staffadmin/internal/preference"
	"staffadmin/internal/service"
	"staffadmin/internal/session"
	"staffadmin/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps is everything the router needs. Hub may be nil, which disables /ws.
type Deps struct {
	Logger     *slog.Logger
	Production bool
	Sessions   *session.Manager
	Resolver   *permission.Resolver

	CORSOrigins    []string
	LoginRateLimit int

	Auth        service.AuthService
	Roles       service.RoleService
	Users       service.UserService
	Employees   service.EmployeeService
	Dashboard   service.DashboardService
	Audit       service.AuditService
	Preferences preference.Store
	Hub         *websocket.Hub
}

// NewRouter returns the configured engine.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Resolver == nil {
		d.Resolver = permission.Default
	}
	if d.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.SecureHeaders(d.Production),
	)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = d.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.MaxAge = 12 * time.Hour
	if len(corsConfig.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig))
	}

	router.Use(middleware.LoadSession(d.Sessions))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	root := router.Group("")
	handler.NewAuthHandler(d.Auth, d.Sessions, d.LoginRateLimit).RegisterRoutes(root)
	handler.NewPageHandler(d.Auth, d.Resolver).RegisterRoutes(root)
	handler.NewRoleHandler(d.Roles, d.Resolver).RegisterRoutes(root)
	handler.NewUserHandler(d.Users, d.Resolver).RegisterRoutes(root)
	handler.NewAuditHandler(d.Audit, d.Resolver).RegisterRoutes(root)
	handler.NewEmployeeHandler(d.Employees).RegisterRoutes(root)
	handler.NewDashboardHandler(d.Dashboard).RegisterRoutes(root)
	if d.Preferences != nil {
		handler.NewPreferenceHandler(d.Preferences).RegisterRoutes(root)
	}
	if d.Hub != nil {
		handler.NewWebsocketHandler(d.Hub).RegisterRoutes(root)
	}

	return router
}
