package rbac

import "shelfmarket/internal/domain"

// The enforce/role DTOs live in internal/domain so middleware can reference
// them without importing this package.
type (
	EnforceRequest     = domain.EnforceRequest
	EnforceResponse    = domain.EnforceResponse
	RoleResponse       = domain.RoleResponse
	CreateRoleRequest  = domain.CreateRoleRequest
	UpdateRoleRequest  = domain.UpdateRoleRequest
	PermissionResponse = domain.PermissionResponse
)
