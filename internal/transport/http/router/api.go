package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "soundpath/internal/transport/http/middleware"
)

// NewAPIEngine 对外 API。路由全部挂在根路径上（/ping /books /profiles
// /api/register /api/login /login /auth），与前端约定保持一致。
func NewAPIEngine(l *zap.Logger, reg *Registry, frontendURL string) *gin.Engine {
	r := gin.New()

	// 只放行前端自己的源，带凭证
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{frontendURL}
	corsCfg.AllowCredentials = true

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(15*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.New(corsCfg),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	root := r.Group("")
	reg.MountAPI(root)

	return r
}
