package constants

// 班次类型常量（与前端/导入表格保持一致的数字编码）
const (
	ShiftTypeDay   uint8 = 1
	ShiftTypeNight uint8 = 2
	ShiftTypeMid   uint8 = 3
)

// 分配结果类型常量
const (
	AssignmentKindCreated = "created"
	AssignmentKindUpdated = "updated"
	AssignmentKindCleared = "cleared"
	AssignmentKindDeleted = "deleted"
)

// 分配渠道常量
const (
	ChannelSelfService = "self_service"
	ChannelBatch       = "batch"
)

// 证据核验结果常量
const (
	EvidenceStateHasEvidence = "has_evidence"
	EvidenceStateNoEvidence  = "no_evidence"
	EvidenceStateUnknown     = "unknown"
)

// 通话评分时间分段边界（距午夜分钟数）
const (
	ScoreBucketDayStartMinute = 6 * 60
	ScoreBucketMidStartMinute = 14 * 60
	ScoreBucketNightStartMin  = 22 * 60
)

// 内置角色常量
const (
	RoleSupervisor    = "supervisor"
	RoleAdministrator = "administrator"
	RoleAuditor       = "auditor"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskReconcileBatch = "fulfillment:reconcile_batch"
)

// ShiftTypeName 返回班次类型名称
func ShiftTypeName(shiftType uint8) string {
	switch shiftType {
	case ShiftTypeDay:
		return "day"
	case ShiftTypeNight:
		return "night"
	case ShiftTypeMid:
		return "mid"
	default:
		return "unknown"
	}
}

// IsValidShiftType 判断班次类型是否合法
func IsValidShiftType(shiftType uint8) bool {
	return shiftType == ShiftTypeDay || shiftType == ShiftTypeNight || shiftType == ShiftTypeMid
}
