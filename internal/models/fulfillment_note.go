package models

import "time"

// FulfillmentNote 履职记录备注（novedad）
type FulfillmentNote struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	FulfillmentID uint      `gorm:"index;not null" json:"fulfillment_id"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	Author        string    `gorm:"type:varchar(120);not null;default:''" json:"author"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	// 有备注的记录只能清空不能删除
	Fulfillment *ShiftFulfillment `gorm:"foreignKey:FulfillmentID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName 指定表名
func (FulfillmentNote) TableName() string {
	return "fulfillment_notes"
}
