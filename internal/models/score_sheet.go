package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ScoreSheet 通讯质量评分表，每条履职记录至多一份
type ScoreSheet struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	FulfillmentID uint         `gorm:"uniqueIndex;not null" json:"fulfillment_id"`
	Entries       ScoreEntries `gorm:"type:json" json:"entries"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	Fulfillment *ShiftFulfillment `gorm:"foreignKey:FulfillmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (ScoreSheet) TableName() string {
	return "score_sheets"
}

// ScoreEntry 单次报到评分
type ScoreEntry struct {
	Score  decimal.Decimal `json:"score"`
	Remark *string         `json:"remark,omitempty"`
}

type scoreEntryPayload struct {
	Score  json.RawMessage `json:"score"`
	Value  json.RawMessage `json:"value"`
	Remark *string         `json:"remark"`
}

// MarshalJSON 分数以数字输出
func (e ScoreEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Score  json.Number `json:"score"`
		Remark *string     `json:"remark,omitempty"`
	}{
		Score:  json.Number(e.Score.String()),
		Remark: e.Remark,
	})
}

// UnmarshalJSON 解析评分（score 或 value，数字或字符串）
func (e *ScoreEntry) UnmarshalJSON(b []byte) error {
	var payload scoreEntryPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return err
	}
	raw := payload.Score
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = payload.Value
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errors.New("score entry requires score or value")
	}
	raw = bytes.Trim(raw, `"`)
	score, err := decimal.NewFromString(string(raw))
	if err != nil {
		return err
	}
	e.Score = score
	e.Remark = payload.Remark
	return nil
}

// ScoreEntries 报到槽位 -> 时间标签(HH:MM) -> 评分
type ScoreEntries map[string]map[string]ScoreEntry

// Count 返回评分条目总数
func (s ScoreEntries) Count() int {
	total := 0
	for _, times := range s {
		total += len(times)
	}
	return total
}

// Value 实现 driver.Valuer 接口
func (s ScoreEntries) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (s *ScoreEntries) Scan(value interface{}) error {
	*s = make(ScoreEntries)
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported score entries value")
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, s)
}
