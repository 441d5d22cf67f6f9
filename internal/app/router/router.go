// Package router はアプリケーションのHTTPルーティングを構築します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	holdinghandler "portfolio_backend/internal/feature/holdings/transport/handler"
	"portfolio_backend/internal/platform/http/handler"
)

// NewRouter wires every route. An empty allowedOrigins allows every origin.
func NewRouter(holdings *holdinghandler.HoldingHandler, status handler.RefreshStatus, allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(allowedOrigins)))

	// 導通確認用
	health := handler.Health(status)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	r.GET("/", holdings.Welcome)

	stocks := r.Group("/stocks")
	{
		stocks.GET("", holdings.ListHoldings)
		stocks.POST("", holdings.CreateHolding)
		stocks.GET("/:id", holdings.GetHolding)
		stocks.PUT("/:id", holdings.UpdateHolding)
		stocks.DELETE("/:id", holdings.DeleteHolding)
	}

	r.GET("/portfolio-metrics", holdings.GetPortfolioMetrics)

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
