package repository

import (
	"errors"
	"time"

	"github.com/cumplido-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShiftFulfillmentRepository 班次履职记录数据访问接口
type ShiftFulfillmentRepository interface {
	GetByID(id uint) (*models.ShiftFulfillment, error)
	GetByIDForUpdate(id uint) (*models.ShiftFulfillment, error)
	GetBySlot(slot models.ShiftSlot) (*models.ShiftFulfillment, error)
	LockDay(positionID uint, date time.Time) error
	FindWorkerShift(positionID uint, date time.Time, worker string, excludeShiftType uint8) (*models.ShiftFulfillment, error)
	CreateIfAbsent(fulfillment *models.ShiftFulfillment) (bool, error)
	UpdateWorker(id uint, worker *string) error
	Delete(id uint) error
	ExistsShiftType(positionID uint, date time.Time, shiftType uint8) (bool, error)
	List(filter ShiftFulfillmentListFilter) ([]models.ShiftFulfillment, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ShiftFulfillmentRepository
}

// GormShiftFulfillmentRepository GORM 实现
type GormShiftFulfillmentRepository struct {
	db *gorm.DB
}

// NewShiftFulfillmentRepository 创建班次履职仓库
func NewShiftFulfillmentRepository(db *gorm.DB) *GormShiftFulfillmentRepository {
	return &GormShiftFulfillmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShiftFulfillmentRepository) WithTx(tx *gorm.DB) ShiftFulfillmentRepository {
	if tx == nil {
		return r
	}
	return &GormShiftFulfillmentRepository{db: tx}
}

// Transaction 执行事务
func (r *GormShiftFulfillmentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据 ID 获取履职记录
func (r *GormShiftFulfillmentRepository) GetByID(id uint) (*models.ShiftFulfillment, error) {
	var fulfillment models.ShiftFulfillment
	if err := r.db.First(&fulfillment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fulfillment, nil
}

// GetByIDForUpdate 事务内读取并锁定履职记录（SQLite 忽略行锁）
func (r *GormShiftFulfillmentRepository) GetByIDForUpdate(id uint) (*models.ShiftFulfillment, error) {
	var fulfillment models.ShiftFulfillment
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&fulfillment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fulfillment, nil
}

// LockDay 事务内串行化同岗位同日期的写入
// PostgreSQL 使用事务级咨询锁，覆盖尚不存在的槽位；其他驱动依赖进程内锁
func (r *GormShiftFulfillmentRepository) LockDay(positionID uint, date time.Time) error {
	if r.db.Dialector == nil || r.db.Dialector.Name() != "postgres" {
		return nil
	}
	day := models.NormalizeDay(date).Unix() / 86400
	return r.db.Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(positionID), int32(day)).Error
}

// GetBySlot 根据槽位获取履职记录
func (r *GormShiftFulfillmentRepository) GetBySlot(slot models.ShiftSlot) (*models.ShiftFulfillment, error) {
	var fulfillment models.ShiftFulfillment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("position_id = ? AND date = ? AND shift_type = ?", slot.PositionID, models.NormalizeDay(slot.Date), slot.ShiftType).
		First(&fulfillment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fulfillment, nil
}

// FindWorkerShift 查找人员在同岗位同日期担任的其他班次
func (r *GormShiftFulfillmentRepository) FindWorkerShift(positionID uint, date time.Time, worker string, excludeShiftType uint8) (*models.ShiftFulfillment, error) {
	var fulfillment models.ShiftFulfillment
	err := r.db.
		Where("position_id = ? AND date = ? AND worker_name = ? AND shift_type <> ?", positionID, models.NormalizeDay(date), worker, excludeShiftType).
		Order("shift_type ASC").
		First(&fulfillment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fulfillment, nil
}

// CreateIfAbsent 插入履职记录，槽位已存在时不插入并返回 false
func (r *GormShiftFulfillmentRepository) CreateIfAbsent(fulfillment *models.ShiftFulfillment) (bool, error) {
	fulfillment.Date = models.NormalizeDay(fulfillment.Date)
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "position_id"}, {Name: "date"}, {Name: "shift_type"}},
		DoNothing: true,
	}).Create(fulfillment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateWorker 更新分配人员（nil 表示清空）
func (r *GormShiftFulfillmentRepository) UpdateWorker(id uint, worker *string) error {
	return r.db.Model(&models.ShiftFulfillment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"worker_name": worker,
			"updated_at":  time.Now(),
		}).Error
}

// Delete 删除履职记录
func (r *GormShiftFulfillmentRepository) Delete(id uint) error {
	return r.db.Delete(&models.ShiftFulfillment{}, id).Error
}

// ExistsShiftType 判断同岗位同日期是否存在指定班次
func (r *GormShiftFulfillmentRepository) ExistsShiftType(positionID uint, date time.Time, shiftType uint8) (bool, error) {
	var count int64
	err := r.db.Model(&models.ShiftFulfillment{}).
		Where("position_id = ? AND date = ? AND shift_type = ?", positionID, models.NormalizeDay(date), shiftType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 按岗位与日期范围查询履职记录
func (r *GormShiftFulfillmentRepository) List(filter ShiftFulfillmentListFilter) ([]models.ShiftFulfillment, error) {
	query := r.db.Model(&models.ShiftFulfillment{})
	if len(filter.PositionIDs) > 0 {
		query = query.Where("position_id IN ?", filter.PositionIDs)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", models.NormalizeDay(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", models.NormalizeDay(*filter.DateTo))
	}
	var rows []models.ShiftFulfillment
	if err := query.Order("date ASC, position_id ASC, shift_type ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
