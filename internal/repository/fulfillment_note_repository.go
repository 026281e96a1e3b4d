package repository

import (
	"errors"

	"github.com/cumplido-next/internal/models"

	"gorm.io/gorm"
)

// FulfillmentNoteRepository 履职备注数据访问接口
type FulfillmentNoteRepository interface {
	Create(note *models.FulfillmentNote) error
	GetByID(id uint) (*models.FulfillmentNote, error)
	Delete(id uint) error
	CountByFulfillmentID(fulfillmentID uint) (int64, error)
	ListByFulfillmentID(fulfillmentID uint) ([]models.FulfillmentNote, error)
	ListByFulfillmentIDs(fulfillmentIDs []uint) ([]models.FulfillmentNote, error)
	WithTx(tx *gorm.DB) *GormFulfillmentNoteRepository
}

// GormFulfillmentNoteRepository GORM 实现
type GormFulfillmentNoteRepository struct {
	db *gorm.DB
}

// NewFulfillmentNoteRepository 创建履职备注仓库
func NewFulfillmentNoteRepository(db *gorm.DB) *GormFulfillmentNoteRepository {
	return &GormFulfillmentNoteRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFulfillmentNoteRepository) WithTx(tx *gorm.DB) *GormFulfillmentNoteRepository {
	if tx == nil {
		return r
	}
	return &GormFulfillmentNoteRepository{db: tx}
}

// Create 创建备注
func (r *GormFulfillmentNoteRepository) Create(note *models.FulfillmentNote) error {
	return r.db.Create(note).Error
}

// GetByID 根据 ID 获取备注
func (r *GormFulfillmentNoteRepository) GetByID(id uint) (*models.FulfillmentNote, error) {
	var note models.FulfillmentNote
	if err := r.db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// Delete 删除备注
func (r *GormFulfillmentNoteRepository) Delete(id uint) error {
	return r.db.Delete(&models.FulfillmentNote{}, id).Error
}

// CountByFulfillmentID 统计履职记录下的备注数
func (r *GormFulfillmentNoteRepository) CountByFulfillmentID(fulfillmentID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.FulfillmentNote{}).Where("fulfillment_id = ?", fulfillmentID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByFulfillmentID 获取履职记录下的备注
func (r *GormFulfillmentNoteRepository) ListByFulfillmentID(fulfillmentID uint) ([]models.FulfillmentNote, error) {
	var notes []models.FulfillmentNote
	if err := r.db.Where("fulfillment_id = ?", fulfillmentID).Order("id ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// ListByFulfillmentIDs 批量获取备注
func (r *GormFulfillmentNoteRepository) ListByFulfillmentIDs(fulfillmentIDs []uint) ([]models.FulfillmentNote, error) {
	if len(fulfillmentIDs) == 0 {
		return []models.FulfillmentNote{}, nil
	}
	var notes []models.FulfillmentNote
	if err := r.db.Where("fulfillment_id IN ?", fulfillmentIDs).Order("id ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
