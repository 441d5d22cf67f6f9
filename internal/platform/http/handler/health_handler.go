// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/platform/scheduler"
)

// RefreshStatus exposes the refresh scheduler's run state.
type RefreshStatus interface {
	State() scheduler.State
}

// Health returns the /healthz handler. The response carries the refresh
// scheduler's state when status is non-nil.
func Health(status RefreshStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			body := gin.H{"status": "ok"}
			if status != nil {
				body["refresh"] = status.State().String()
			}
			c.JSON(http.StatusOK, body)
		}
	}
}
