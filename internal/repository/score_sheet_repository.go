package repository

import (
	"errors"
	"time"

	"github.com/cumplido-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreSheetRepository 评分表数据访问接口
type ScoreSheetRepository interface {
	GetByFulfillmentID(fulfillmentID uint) (*models.ScoreSheet, error)
	Replace(fulfillmentID uint, entries models.ScoreEntries) error
	DeleteByFulfillmentID(fulfillmentID uint) error
	ListByFulfillmentIDs(fulfillmentIDs []uint) ([]models.ScoreSheet, error)
	WithTx(tx *gorm.DB) *GormScoreSheetRepository
}

// GormScoreSheetRepository GORM 实现
type GormScoreSheetRepository struct {
	db *gorm.DB
}

// NewScoreSheetRepository 创建评分表仓库
func NewScoreSheetRepository(db *gorm.DB) *GormScoreSheetRepository {
	return &GormScoreSheetRepository{db: db}
}

// WithTx 绑定事务
func (r *GormScoreSheetRepository) WithTx(tx *gorm.DB) *GormScoreSheetRepository {
	if tx == nil {
		return r
	}
	return &GormScoreSheetRepository{db: tx}
}

// GetByFulfillmentID 获取履职记录的评分表
func (r *GormScoreSheetRepository) GetByFulfillmentID(fulfillmentID uint) (*models.ScoreSheet, error) {
	var sheet models.ScoreSheet
	if err := r.db.Where("fulfillment_id = ?", fulfillmentID).First(&sheet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sheet, nil
}

// Replace 整体覆盖评分表（不存在则创建）
func (r *GormScoreSheetRepository) Replace(fulfillmentID uint, entries models.ScoreEntries) error {
	if entries == nil {
		entries = models.ScoreEntries{}
	}
	now := time.Now()
	sheet := models.ScoreSheet{
		FulfillmentID: fulfillmentID,
		Entries:       entries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fulfillment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"entries", "updated_at"}),
	}).Create(&sheet).Error
}

// DeleteByFulfillmentID 删除履职记录的评分表
func (r *GormScoreSheetRepository) DeleteByFulfillmentID(fulfillmentID uint) error {
	return r.db.Where("fulfillment_id = ?", fulfillmentID).Delete(&models.ScoreSheet{}).Error
}

// ListByFulfillmentIDs 批量获取评分表
func (r *GormScoreSheetRepository) ListByFulfillmentIDs(fulfillmentIDs []uint) ([]models.ScoreSheet, error) {
	if len(fulfillmentIDs) == 0 {
		return []models.ScoreSheet{}, nil
	}
	var sheets []models.ScoreSheet
	if err := r.db.Where("fulfillment_id IN ?", fulfillmentIDs).Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}
