package operator

import "github.com/cumplido-next/internal/provider"

// Handler 操作员接口处理器入口
// 说明：该处理器用于主管日常排班、备注与评分 API。
type Handler struct {
	*provider.Container
}

// New 创建操作员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
