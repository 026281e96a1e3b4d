package repository

import (
	"errors"

	"github.com/cumplido-next/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository 业务/单元/岗位只读数据访问接口
type CatalogRepository interface {
	GetBusiness(id uint) (*models.Business, error)
	ListUnitsByBusiness(businessID uint) ([]models.BusinessUnit, error)
	ListPositionsByUnits(unitIDs []uint) ([]models.Position, error)
}

// GormCatalogRepository GORM 实现
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建目录仓库
func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// GetBusiness 根据 ID 获取业务
func (r *GormCatalogRepository) GetBusiness(id uint) (*models.Business, error) {
	var business models.Business
	if err := r.db.First(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &business, nil
}

// ListUnitsByBusiness 获取业务下属单元
func (r *GormCatalogRepository) ListUnitsByBusiness(businessID uint) ([]models.BusinessUnit, error) {
	var units []models.BusinessUnit
	if err := r.db.Where("business_id = ?", businessID).Order("name ASC, id ASC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// ListPositionsByUnits 获取单元下的岗位
func (r *GormCatalogRepository) ListPositionsByUnits(unitIDs []uint) ([]models.Position, error) {
	if len(unitIDs) == 0 {
		return []models.Position{}, nil
	}
	var positions []models.Position
	if err := r.db.Where("business_unit_id IN ?", unitIDs).Order("name ASC, id ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}
