package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cumplido-next/internal/constants"
	"github.com/cumplido-next/internal/models"
)

const dateLayout = "2006-01-02"

// FlexString 接受 JSON 字符串或数字的字段，解析失败不报错，留给业务校验
type FlexString struct {
	Set     bool
	Invalid bool
	Value   string
}

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(b []byte) error {
	*f = FlexString{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	f.Set = true
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			f.Invalid = true
			return nil
		}
		f.Value = strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f.Value = string(trimmed)
	default:
		f.Invalid = true
		f.Value = string(trimmed)
	}
	return nil
}

// MarshalJSON 输出原始文本
func (f FlexString) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Flex 构建已赋值的 FlexString
func Flex(value string) FlexString {
	return FlexString{Set: true, Value: value}
}

// OptionalString 区分缺失、显式 null 与具体值
type OptionalString struct {
	Set     bool
	Null    bool
	Invalid bool
	Value   string
}

// UnmarshalJSON 实现 json.Unmarshaler（显式 null 也会进入）
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	*o = OptionalString{Set: true}
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		o.Null = true
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		o.Invalid = true
		return nil
	}
	o.Value = s
	return nil
}

// MarshalJSON 缺失与 null 均输出 null
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Pointer 返回人员指针，null 返回 nil
func (o OptionalString) Pointer() *string {
	if !o.Set || o.Null {
		return nil
	}
	value := o.Value
	return &value
}

// Present 构建具体值
func Present(value string) OptionalString {
	return OptionalString{Set: true, Value: value}
}

// ExplicitNull 构建显式 null
func ExplicitNull() OptionalString {
	return OptionalString{Set: true, Null: true}
}

// ParseSlot 解析并校验槽位参数
func ParseSlot(positionID, date, shiftType string) (models.ShiftSlot, error) {
	pos, err := ParsePositionID(positionID)
	if err != nil {
		return models.ShiftSlot{}, err
	}
	day, err := ParseDay(date)
	if err != nil {
		return models.ShiftSlot{}, err
	}
	st, err := ParseShiftType(shiftType)
	if err != nil {
		return models.ShiftSlot{}, err
	}
	return models.ShiftSlot{PositionID: pos, Date: day, ShiftType: st}, nil
}

// ParsePositionID 解析岗位 ID（仅接受正整数）
func ParsePositionID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: position_id is required", ErrFulfillmentInvalid)
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("%w: position_id must be a positive integer", ErrFulfillmentInvalid)
	}
	return uint(value), nil
}

// ParseShiftType 解析班次类型（1=day 2=night 3=mid）
func ParseShiftType(raw string) (uint8, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: shift_type is required", ErrFulfillmentInvalid)
	}
	value, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: shift_type must be numeric", ErrFulfillmentInvalid)
	}
	shiftType := uint8(value)
	if !constants.IsValidShiftType(shiftType) {
		return 0, fmt.Errorf("%w: unknown shift_type %d", ErrFulfillmentInvalid, value)
	}
	return shiftType, nil
}

// ParseDay 解析日期为日历日，接受 YYYY-MM-DD 或 RFC3339 时间戳（截取当天）
func ParseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrFulfillmentInvalid)
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return models.NormalizeDay(t), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return models.NormalizeDay(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrFulfillmentInvalid)
}

// normalizeWorker 空白人员视为移除请求
func normalizeWorker(worker *string) *string {
	if worker == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*worker)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
