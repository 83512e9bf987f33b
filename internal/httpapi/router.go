package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marketsafe/bot/internal/common"
	"github.com/marketsafe/bot/internal/config"
	"github.com/marketsafe/bot/internal/entitlement"
	"github.com/marketsafe/bot/internal/httpapi/handlers"
	"github.com/marketsafe/bot/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, ledger *entitlement.Ledger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(cfg, ledger)

	r.GET("/ping", h.Ping)
	r.POST("/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/entitlements/:user_id", h.GetEntitlement)
	authGroup.POST("/entitlements", h.GrantEntitlement)

	return r
}
