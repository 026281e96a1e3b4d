package main

import (
	"flag"
	"time"

	"github.com/cumplido-next/internal/authz"
	"github.com/cumplido-next/internal/config"
	"github.com/cumplido-next/internal/constants"
	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"
	"github.com/cumplido-next/internal/service"
)

type seedUnit struct {
	name      string
	positions []string
}

func main() {
	var operatorID uint
	var tokenTTL time.Duration
	flag.UintVar(&operatorID, "operator", 1, "开发令牌使用的操作员 ID")
	flag.DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "开发令牌有效期")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 业务与岗位
	business := models.Business{Name: "Acme Logistics"}
	if err := models.DB.Where("name = ?", business.Name).FirstOrCreate(&business).Error; err != nil {
		stdLog.Fatalf("Failed to create business: %v", err)
	}
	stdLog.Printf("Business ready: %s (id=%d)", business.Name, business.ID)

	units := []seedUnit{
		{name: "North Plant", positions: []string{"Lobby", "Gate", "Perimeter"}},
		{name: "South Plant", positions: []string{"Dock", "Control Room"}},
	}
	for _, seed := range units {
		unit := models.BusinessUnit{BusinessID: business.ID, Name: seed.name}
		if err := models.DB.Where("business_id = ? AND name = ?", business.ID, seed.name).FirstOrCreate(&unit).Error; err != nil {
			stdLog.Printf("Failed to create unit %s: %v", seed.name, err)
			continue
		}
		for _, name := range seed.positions {
			position := models.Position{BusinessUnitID: unit.ID, Name: name}
			if err := models.DB.Where("business_unit_id = ? AND name = ?", unit.ID, name).FirstOrCreate(&position).Error; err != nil {
				stdLog.Printf("Failed to create position %s/%s: %v", seed.name, name, err)
				continue
			}
			stdLog.Printf("Position ready: %s/%s (id=%d)", seed.name, name, position.ID)
		}
	}

	// 评分配置
	scoringConfigs := service.NewScoringConfigService(repository.NewScoringConfigRepository(models.DB))
	effectiveFrom := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	if _, err := scoringConfigs.Create(service.CreateScoringConfigInput{
		BusinessID:    business.ID,
		EffectiveFrom: effectiveFrom,
		DaySlots:      6,
		NightSlots:    4,
	}); err != nil {
		stdLog.Printf("Scoring config skipped (%s): %v", effectiveFrom, err)
	} else {
		stdLog.Printf("Created scoring config effective from %s", effectiveFrom)
	}

	// 预置角色与开发操作员
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to bootstrap roles: %v", err)
	}
	if err := authzService.SetOperatorRoles(operatorID, []string{constants.RoleAdministrator}); err != nil {
		stdLog.Fatalf("Failed to bind operator %d: %v", operatorID, err)
	}

	token, err := authz.IssueOperatorToken(cfg.JWT.SecretKey, cfg.JWT.Issuer, operatorID, "seed-admin", []string{constants.RoleAdministrator}, tokenTTL)
	if err != nil {
		stdLog.Fatalf("Failed to issue dev token: %v", err)
	}
	stdLog.Printf("Dev token for operator %d (expires in %s):", operatorID, tokenTTL)
	stdLog.Printf("Bearer %s", token)
	stdLog.Println("Seed data created successfully!")
}
