package routers

import (
	"time"

	"github.com/mekstation/vault-sync-service/internal/app"
	"github.com/mekstation/vault-sync-service/internal/middleware"
	"github.com/mekstation/vault-sync-service/internal/routers/api_router"
	"github.com/mekstation/vault-sync-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// 版本与变更接口按前缀限速
var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/change",
		FillInterval: time.Second,
		Capacity:     100,
		Quantum:      100,
	},
	limiter.BucketRule{
		Key:          "/api/version",
		FillInterval: time.Second,
		Capacity:     100,
		Quantum:      100,
	},
)

// NewRouter 创建公共 API 路由
// NewRouter creates the public API router
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo())
		api.Use(middleware.TraceMiddleware(middleware.TracerConfig{
			Enabled: cfg.Tracer.Enabled,
			Header:  cfg.Tracer.Header,
		}))
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.Server.DefaultContextTimeout) * time.Second))
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog())
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		api.Use(MetricsMiddleware())

		// 创建 Handlers（注入 App Container）
		versionHandler := api_router.NewVersionHandler(appContainer)
		changeHandler := api_router.NewChangeLogHandler(appContainer)
		conflictHandler := api_router.NewConflictHandler(appContainer)

		// 服务端版本号（无需参数）
		api.GET("/server/version", versionHandler.Server)

		// 版本历史
		api.POST("/version", versionHandler.Save)
		api.GET("/version/detail", versionHandler.Get)
		api.GET("/version/history", versionHandler.History)
		api.GET("/version/summary", versionHandler.Summary)
		api.GET("/version/diff", versionHandler.Diff)
		api.PUT("/version/rollback", versionHandler.Rollback)
		api.DELETE("/version/prune", versionHandler.Prune)
		api.DELETE("/version", versionHandler.Delete)
		api.DELETE("/versions", versionHandler.DeleteAll)

		// 变更日志
		api.POST("/change", changeHandler.Record)
		api.GET("/change/latest", changeHandler.Latest)
		api.GET("/change/history", changeHandler.ItemHistory)
		api.GET("/changes", changeHandler.Since)
		api.GET("/changes/unsynced", changeHandler.Unsynced)
		api.GET("/changes/version", changeHandler.CurrentVersion)
		api.PUT("/changes/synced", changeHandler.MarkSynced)
		api.DELETE("/changes/prune", changeHandler.Prune)

		// 同步冲突
		api.POST("/conflict", conflictHandler.Record)
		api.GET("/conflicts/pending", conflictHandler.Pending)
		api.PUT("/conflict/resolve", conflictHandler.Resolve)
	}

	r.NoRoute(middleware.NoFound())
	r.NoMethod(middleware.NoFound())

	return r
}
