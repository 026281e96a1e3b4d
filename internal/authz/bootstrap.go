package authz

import (
	"fmt"

	"github.com/cumplido-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleAuditor,
			Policies: []Policy{
				{Object: "/operator/*", Action: "GET"},
				{Object: "/admin/consolidated", Action: "GET"},
				{Object: "/admin/scoring-configs", Action: "GET"},
				{Object: "/admin/scoring-configs/effective", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     constants.RoleSupervisor,
			Inherits: []string{constants.RoleAuditor},
			Policies: []Policy{
				{Object: "/operator/fulfillments/assign", Action: "POST"},
				{Object: "/operator/fulfillments/:id/notes", Action: "POST"},
				{Object: "/operator/notes/:id", Action: "DELETE"},
				{Object: "/operator/fulfillments/:id/score-sheet", Action: "PUT"},
			},
			Immutable: true,
		},
		{
			Role:     constants.RoleAdministrator,
			Inherits: []string{constants.RoleSupervisor},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}

// IsBuiltinRole 判断是否为预置角色
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if builtin, _ := NormalizeRole(seed.Role); builtin == normalized {
			return seed.Immutable
		}
	}
	return false
}
