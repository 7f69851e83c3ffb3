package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer loads the RBAC model from disk. Policies are not file-backed;
// the rbac service feeds them from the roles/permissions tables.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
