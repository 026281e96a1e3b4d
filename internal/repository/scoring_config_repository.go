package repository

import (
	"errors"
	"time"

	"github.com/cumplido-next/internal/models"

	"gorm.io/gorm"
)

// ScoringConfigRepository 评分配置数据访问接口
type ScoringConfigRepository interface {
	Create(config *models.ScoringConfig) error
	ListByBusiness(businessID uint) ([]models.ScoringConfig, error)
	FindEffective(businessID uint, date time.Time) (*models.ScoringConfig, error)
}

// GormScoringConfigRepository GORM 实现
type GormScoringConfigRepository struct {
	db *gorm.DB
}

// NewScoringConfigRepository 创建评分配置仓库
func NewScoringConfigRepository(db *gorm.DB) *GormScoringConfigRepository {
	return &GormScoringConfigRepository{db: db}
}

// Create 创建评分配置
func (r *GormScoringConfigRepository) Create(config *models.ScoringConfig) error {
	config.EffectiveFrom = models.NormalizeDay(config.EffectiveFrom)
	return r.db.Create(config).Error
}

// ListByBusiness 获取业务的全部评分配置（按生效日期倒序）
func (r *GormScoringConfigRepository) ListByBusiness(businessID uint) ([]models.ScoringConfig, error) {
	var configs []models.ScoringConfig
	if err := r.db.Where("business_id = ?", businessID).Order("effective_from DESC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// FindEffective 获取指定日期生效的配置：生效日期不晚于该日期中最新的一条
func (r *GormScoringConfigRepository) FindEffective(businessID uint, date time.Time) (*models.ScoringConfig, error) {
	var config models.ScoringConfig
	err := r.db.
		Where("business_id = ? AND effective_from <= ?", businessID, models.NormalizeDay(date)).
		Order("effective_from DESC").
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}
