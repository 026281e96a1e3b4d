package models

import "time"

// Business 业务（客户）
type Business struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(160);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Business) TableName() string {
	return "businesses"
}

// BusinessUnit 业务下属单元
type BusinessUnit struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"type:varchar(160);not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (BusinessUnit) TableName() string {
	return "business_units"
}

// Position 岗位
type Position struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	BusinessUnitID uint      `gorm:"index;not null" json:"business_unit_id"`
	Name           string    `gorm:"type:varchar(160);not null" json:"name"`
	CreatedAt      time.Time `json:"created_at"`

	BusinessUnit *BusinessUnit `gorm:"foreignKey:BusinessUnitID" json:"business_unit,omitempty"`
}

// TableName 指定表名
func (Position) TableName() string {
	return "positions"
}
