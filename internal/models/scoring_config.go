package models

import "time"

// ScoringConfig 通讯评分配置（按业务与生效日期）
type ScoringConfig struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	BusinessID    uint      `gorm:"not null;uniqueIndex:idx_scoring_config_effective,priority:1" json:"business_id"`
	EffectiveFrom time.Time `gorm:"not null;uniqueIndex:idx_scoring_config_effective,priority:2" json:"effective_from"`
	DaySlots      int       `gorm:"not null;default:0" json:"day_slots"`
	NightSlots    int       `gorm:"not null;default:0" json:"night_slots"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ScoringConfig) TableName() string {
	return "scoring_configs"
}
