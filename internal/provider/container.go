package provider

import (
	"time"

	"github.com/cumplido-next/internal/authz"
	"github.com/cumplido-next/internal/cache"
	"github.com/cumplido-next/internal/config"
	"github.com/cumplido-next/internal/evidence"
	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/metrics"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/queue"
	"github.com/cumplido-next/internal/repository"
	"github.com/cumplido-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Metrics     *metrics.Metrics
	Verifier    evidence.Verifier
	SlotLocker  cache.SlotLocker

	// Repositories
	FulfillmentRepo   repository.ShiftFulfillmentRepository
	NoteRepo          repository.FulfillmentNoteRepository
	ScoreSheetRepo    repository.ScoreSheetRepository
	ScoringConfigRepo repository.ScoringConfigRepository
	CatalogRepo       repository.CatalogRepository

	// Services
	AuthzService            *authz.Service
	AssignmentService       *service.ShiftAssignmentService
	ReconcileService        *service.ReconcileService
	ScoreSheetService       *service.ScoreSheetService
	NoteService             *service.NoteService
	ScoringConfigService    *service.ScoringConfigService
	ConsolidatedViewService *service.ConsolidatedViewService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New()
	}
	c.Verifier = evidence.NewHTTPVerifier(cfg.Evidence, c.Metrics)

	// 未启用 Redis 时为 nil，分配服务仅依赖唯一索引
	if locker := cache.NewRedisSlotLocker(cfg.Redis.SlotLockSeconds); locker != nil {
		c.SlotLocker = locker
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.FulfillmentRepo = repository.NewShiftFulfillmentRepository(db)
	c.NoteRepo = repository.NewFulfillmentNoteRepository(db)
	c.ScoreSheetRepo = repository.NewScoreSheetRepository(db)
	c.ScoringConfigRepo = repository.NewScoringConfigRepository(db)
	c.CatalogRepo = repository.NewCatalogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AssignmentService = service.NewShiftAssignmentService(c.FulfillmentRepo, c.NoteRepo, c.ScoreSheetRepo, c.Verifier, c.SlotLocker, c.Metrics)
	c.ReconcileService = service.NewReconcileService(c.AssignmentService, c.QueueClient, c.Metrics)
	c.ScoreSheetService = service.NewScoreSheetService(c.FulfillmentRepo, c.ScoreSheetRepo, c.Metrics)
	c.NoteService = service.NewNoteService(c.FulfillmentRepo, c.NoteRepo)
	c.ScoringConfigService = service.NewScoringConfigService(c.ScoringConfigRepo)
	c.ConsolidatedViewService = service.NewConsolidatedViewService(
		c.CatalogRepo,
		c.FulfillmentRepo,
		c.NoteRepo,
		c.ScoreSheetRepo,
		c.ScoringConfigService,
		time.Duration(c.Config.Redis.ViewCacheSeconds)*time.Second,
	)
}

// Close 释放队列与缓存连接
func (c *Container) Close() error {
	var firstErr error
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			firstErr = err
		}
	}
	if err := cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
