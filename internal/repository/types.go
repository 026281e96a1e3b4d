package repository

import "time"

// ShiftFulfillmentListFilter 查询履职记录列表的过滤条件
type ShiftFulfillmentListFilter struct {
	PositionIDs []uint
	DateFrom    *time.Time
	DateTo      *time.Time
}
