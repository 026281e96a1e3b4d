package evidence

import (
	"context"
	"time"
)

// State 证据核验结果（三态）
type State int

const (
	// Unknown 无法核验（网关异常、超时、响应无法解析）
	Unknown State = iota
	// NoEvidence 确认无附件
	NoEvidence
	// HasEvidence 存在附件
	HasEvidence
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case NoEvidence:
		return "no_evidence"
	case HasEvidence:
		return "has_evidence"
	default:
		return "unknown"
	}
}

// Result 核验结果
type Result struct {
	State      State
	MediaCount int
	Err        error
}

// PermitsRemoval 只有确认无附件时才允许删除或清空
func (r Result) PermitsRemoval() bool {
	return r.State == NoEvidence
}

// Verifier 证据核验网关
type Verifier interface {
	Verify(ctx context.Context, fulfillmentID uint) Result
}

// VerifierFunc 函数适配器
type VerifierFunc func(ctx context.Context, fulfillmentID uint) Result

// Verify 调用函数本身
func (f VerifierFunc) Verify(ctx context.Context, fulfillmentID uint) Result {
	return f(ctx, fulfillmentID)
}

// Observer 核验耗时与结果观察者（指标）
type Observer interface {
	ObserveEvidence(state string, elapsed time.Duration)
}
