package operator

import (
	handlershared "github.com/cumplido-next/internal/http/handlers/shared"
	"github.com/cumplido-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetConsolidated 获取汇总视图
func (h *Handler) GetConsolidated(c *gin.Context) {
	handlershared.RespondConsolidatedView(c, h.ConsolidatedViewService)
}

// GetMe 获取当前操作员权限快照
func (h *Handler) GetMe(c *gin.Context) {
	operatorID, ok := handlershared.GetOperatorID(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetOperatorRoles(operatorID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	policies, err := h.AuthzService.GetOperatorPolicies(operatorID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	claimed, _ := c.Get(handlershared.OperatorRolesKey)
	response.Success(c, gin.H{
		"operator_id":   operatorID,
		"username":      handlershared.OperatorLabel(c),
		"claimed_roles": claimed,
		"roles":         roles,
		"policies":      policies,
	})
}
