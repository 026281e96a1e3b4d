package admin

import (
	"strings"

	"github.com/cumplido-next/internal/authz"
	handlershared "github.com/cumplido-next/internal/http/handlers/shared"
	"github.com/cumplido-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetOperatorRolesPayload struct {
	Roles []string `json:"roles"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := strings.TrimSpace(c.Param("role"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_invalid", err)
		return
	}
	response.Success(c, gin.H{
		"role":     role,
		"builtin":  authz.IsBuiltinRole(role),
		"policies": policies,
	})
}

// GrantAuthzPolicy 为角色授予策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_invalid", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_invalid", err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_granted",
		"operator", handlershared.OperatorLabel(c),
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	response.Success(c, gin.H{"granted": true})
}

// RevokeAuthzPolicy 撤销角色策略（预置角色不可修改）
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_invalid", err)
		return
	}
	if authz.IsBuiltinRole(req.Role) {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_invalid", err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_revoked",
		"operator", handlershared.OperatorLabel(c),
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	response.Success(c, gin.H{"revoked": true})
}

// GetOperatorRoles 查询操作员角色
func (h *Handler) GetOperatorRoles(c *gin.Context) {
	operatorID, ok := handlershared.ParseIDParam(c, "id", "error.authz_invalid")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetOperatorRoles(operatorID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"operator_id": operatorID, "roles": roles})
}

// SetOperatorRoles 覆盖设置操作员角色
func (h *Handler) SetOperatorRoles(c *gin.Context) {
	operatorID, ok := handlershared.ParseIDParam(c, "id", "error.authz_invalid")
	if !ok {
		return
	}
	var req authzSetOperatorRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_invalid", err)
		return
	}
	if err := h.AuthzService.SetOperatorRoles(operatorID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.authz_invalid", err)
		return
	}
	roles, err := h.AuthzService.GetOperatorRoles(operatorID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	requestLog(c).Infow("admin_authz_operator_roles_set",
		"operator", handlershared.OperatorLabel(c),
		"target_operator_id", operatorID,
		"roles", roles,
	)
	response.Success(c, gin.H{"operator_id": operatorID, "roles": roles})
}
