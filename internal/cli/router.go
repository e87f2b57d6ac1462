package cli

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"novelhub/internal/catalog"
	"novelhub/internal/live"
	"novelhub/internal/views"
	"novelhub/pkg/utils"
)

// routerDeps is everything the HTTP router serves from.
type routerDeps struct {
	Server utils.ServerConfig
	Data   utils.DataConfig

	List, Linked, Detail catalog.Source

	DB  *sql.DB   // optional; /ready pings it when set
	Hub *live.Hub // optional; enables /ws
	Log zerolog.Logger
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), views.RequestID(), views.AccessLog(d.Log))

	if err := router.SetTrustedProxies(d.Server.TrustedProxies); err != nil {
		d.Log.Warn().Err(err).Msg("ignoring trusted proxies")
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ready", "sources": gin.H{
			"list":   d.List.Name(),
			"linked": d.Linked.Name(),
			"detail": d.Detail.Name(),
		}}
		if d.Hub != nil {
			body["ws_clients"] = d.Hub.Stats().Clients
		}
		if d.DB != nil {
			if err := d.DB.PingContext(ctx); err != nil {
				body["status"] = "not_ready"
				body["db_error"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["db"] = "ok"
		}
		c.JSON(http.StatusOK, body)
	})

	views.NewPages(d.List, d.Linked, d.Detail).RegisterRoutes(router)
	views.NewAPI(d.Linked).RegisterRoutes(router.Group("/api/novels"))

	router.GET("/data/:name", views.DataFiles(d.Data.Dir))
	if d.Server.StaticDir != "" {
		router.Static("/static", d.Server.StaticDir)
	}
	if d.Hub != nil {
		router.GET("/ws", live.WSHandler(d.Hub))
	}
	return router
}
