package service

import (
	"errors"
	"time"

	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"

	"gorm.io/gorm"
)

const maxReportSlots = 48

// CreateScoringConfigInput 创建评分配置输入
type CreateScoringConfigInput struct {
	BusinessID    uint
	EffectiveFrom string
	DaySlots      int
	NightSlots    int
}

// ScoringConfigService 评分配置服务
type ScoringConfigService struct {
	repo repository.ScoringConfigRepository
}

// NewScoringConfigService 创建评分配置服务
func NewScoringConfigService(repo repository.ScoringConfigRepository) *ScoringConfigService {
	return &ScoringConfigService{repo: repo}
}

// Create 新增一条按日期生效的配置
func (s *ScoringConfigService) Create(input CreateScoringConfigInput) (*models.ScoringConfig, error) {
	if input.BusinessID == 0 {
		return nil, ErrScoringConfigInvalid
	}
	if input.DaySlots < 0 || input.NightSlots < 0 || input.DaySlots > maxReportSlots || input.NightSlots > maxReportSlots {
		return nil, ErrScoringConfigInvalid
	}
	effectiveFrom, err := ParseDay(input.EffectiveFrom)
	if err != nil {
		return nil, ErrScoringConfigInvalid
	}
	config := &models.ScoringConfig{
		BusinessID:    input.BusinessID,
		EffectiveFrom: effectiveFrom,
		DaySlots:      input.DaySlots,
		NightSlots:    input.NightSlots,
	}
	if err := s.repo.Create(config); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrScoringConfigInvalid
		}
		return nil, storeError(err)
	}
	return config, nil
}

// List 获取业务的配置历史
func (s *ScoringConfigService) List(businessID uint) ([]models.ScoringConfig, error) {
	if businessID == 0 {
		return nil, ErrScoringConfigInvalid
	}
	configs, err := s.repo.ListByBusiness(businessID)
	if err != nil {
		return nil, storeError(err)
	}
	return configs, nil
}

// ConfigFor 返回指定日期生效的配置：生效日期不晚于该日期中最新的一条，每次调用实时查询
func (s *ScoringConfigService) ConfigFor(businessID uint, date time.Time) (*models.ScoringConfig, error) {
	if businessID == 0 {
		return nil, ErrScoringConfigInvalid
	}
	config, err := s.repo.FindEffective(businessID, models.NormalizeDay(date))
	if err != nil {
		return nil, storeError(err)
	}
	if config == nil {
		return nil, ErrScoringConfigNotFound
	}
	return config, nil
}
