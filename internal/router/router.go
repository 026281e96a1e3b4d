package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cumplido-next/internal/authz"
	"github.com/cumplido-next/internal/cache"
	"github.com/cumplido-next/internal/config"
	adminhandlers "github.com/cumplido-next/internal/http/handlers/admin"
	operatorhandlers "github.com/cumplido-next/internal/http/handlers/operator"
	handlershared "github.com/cumplido-next/internal/http/handlers/shared"
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	handlershared.RegisterValidators()
	r := gin.New()

	// 初始化 Handler（按操作员/管理端分组）
	operatorHandler := operatorhandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cumplido"
	}
	redisClient := cache.Client()
	reconcileRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:reconcile", redisPrefix),
		WindowSeconds: cfg.Security.ReconcileRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ReconcileRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	apiV1.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, cfg.JWT.Issuer), RBACMiddleware(c.AuthzService))
	{
		// 操作员接口
		operator := apiV1.Group("/operator")
		{
			operator.GET("/me", operatorHandler.GetMe)

			// 排班
			operator.POST("/fulfillments/assign", operatorHandler.AssignShift)
			operator.GET("/fulfillments/:id", operatorHandler.GetFulfillment)

			// 备注
			operator.GET("/fulfillments/:id/notes", operatorHandler.ListNotes)
			operator.POST("/fulfillments/:id/notes", operatorHandler.CreateNote)
			operator.DELETE("/notes/:id", operatorHandler.DeleteNote)

			// 通讯评分
			operator.GET("/fulfillments/:id/score-sheet", operatorHandler.GetScoreSheet)
			operator.PUT("/fulfillments/:id/score-sheet", operatorHandler.SaveScoreSheet)

			// 汇总视图
			operator.GET("/consolidated", operatorHandler.GetConsolidated)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 批量对账
			admin.POST("/fulfillments/reconcile", RateLimitMiddleware(redisClient, reconcileRule, KeyByOperator), adminHandler.ReconcileFulfillments)
			admin.POST("/fulfillments/reconcile/async", RateLimitMiddleware(redisClient, reconcileRule, KeyByOperator), adminHandler.EnqueueReconcile)

			// 评分配置
			admin.GET("/scoring-configs", adminHandler.ListScoringConfigs)
			admin.POST("/scoring-configs", adminHandler.CreateScoringConfig)
			admin.GET("/scoring-configs/effective", adminHandler.GetEffectiveScoringConfig)

			// 汇总视图
			admin.GET("/consolidated", adminHandler.GetConsolidated)

			// 权限管理
			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/authz/operators/:id/roles", adminHandler.GetOperatorRoles)
			admin.PUT("/authz/operators/:id/roles", adminHandler.SetOperatorRoles)
			admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildPermissionCatalog(r))
			})
		}
	}

	// 指标
	if cfg.Metrics.Enabled && c.Metrics != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(c.Metrics.Handler()))
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		if models.DB != nil {
			if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
				ctx.JSON(503, gin.H{"status": "degraded"})
				return
			}
		}
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/operator/") && !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	return segments[0] + "." + segments[1]
}
