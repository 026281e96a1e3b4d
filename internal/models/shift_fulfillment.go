package models

import "time"

// ShiftFulfillment 班次履职记录（cumplido）
// 同一岗位、日期、班次类型只允许存在一条记录。
type ShiftFulfillment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PositionID uint      `gorm:"not null;uniqueIndex:idx_shift_fulfillment_slot,priority:1" json:"position_id"`
	Date       time.Time `gorm:"not null;uniqueIndex:idx_shift_fulfillment_slot,priority:2;index" json:"date"`
	ShiftType  uint8     `gorm:"not null;uniqueIndex:idx_shift_fulfillment_slot,priority:3" json:"shift_type"`
	WorkerName *string   `gorm:"type:varchar(120);index" json:"worker_name"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Position *Position `gorm:"foreignKey:PositionID" json:"position,omitempty"`
}

// TableName 指定表名
func (ShiftFulfillment) TableName() string {
	return "shift_fulfillments"
}

// ShiftSlot 班次槽位（岗位 + 日期 + 班次类型），不单独落库
type ShiftSlot struct {
	PositionID uint
	Date       time.Time
	ShiftType  uint8
}

// NormalizeDay 将时间截断为 UTC 零点的日历日
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
