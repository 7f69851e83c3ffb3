package rbac

import (
	"log"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy() error
	Enforce(req EnforceRequest) (bool, error)

	// Management
	ListRoles() ([]RoleResponse, error)
	GetRole(id string) (*RoleResponse, error)
	CreateRole(req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(id string) error
	ListPermissions() ([]PermissionResponse, error)

	AssignRoleToUser(userID, roleName string) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked()
}

func (s *service) loadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	// Load grouping policy
	userRoles, err := s.repo.GetUserRoles()
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: user_roles=%d", len(userRoles))

	for _, ur := range userRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			ur.UserID,
			ur.RoleID,
		)
		if err != nil {
			return err
		}
	}

	// Load permission policy
	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: role_permissions=%d", len(rolePerms))

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.RoleID,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.UserID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		log.Printf("rbac enforce result: user_id=%s resource=%s action=%s err=%v", req.UserID, req.Resource, req.Action, err)
		return false, err
	}

	log.Printf("rbac enforce result: user_id=%s resource=%s action=%s allowed=%t",
		req.UserID, req.Resource, req.Action, allowed)

	return allowed, nil
}

func (s *service) ListRoles() ([]RoleResponse, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		return nil, err
	}

	resp := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms, err := s.repo.GetPermissionsByRoleID(role.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, mapRole(role, perms))
	}

	return resp, nil
}

func (s *service) GetRole(id string) (*RoleResponse, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}

	perms, err := s.repo.GetPermissionsByRoleID(role.ID)
	if err != nil {
		return nil, err
	}

	resp := mapRole(*role, perms)
	return &resp, nil
}

func (s *service) CreateRole(req CreateRoleRequest) (*RoleResponse, error) {
	name := strings.ToUpper(strings.TrimSpace(req.Name))

	role := &RoleRow{
		Name:        name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, err
	}

	if len(req.Permissions) > 0 {
		if err := s.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	return s.GetRole(role.ID)
}

func (s *service) UpdateRole(id string, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) != "" {
		role.Name = strings.ToUpper(strings.TrimSpace(req.Name))
	}
	if req.Description != "" {
		role.Description = req.Description
	}

	if err := s.repo.UpdateRole(role); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		if err := s.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	return s.GetRole(role.ID)
}

func (s *service) DeleteRole(id string) error {
	if _, err := s.repo.GetRoleByID(id); err != nil {
		return err
	}
	return s.repo.DeleteRole(id)
}

func (s *service) ListPermissions() ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	return resp, nil
}

func (s *service) AssignRoleToUser(userID, roleName string) error {
	role, err := s.repo.GetRoleByName(strings.ToUpper(strings.TrimSpace(roleName)))
	if err != nil {
		return err
	}

	if err := s.repo.AssignRoleToUser(userID, role.ID); err != nil {
		return err
	}

	return s.LoadPolicy()
}

func mapRole(role RoleRow, perms []PermissionRow) RoleResponse {
	permLabels := make([]string, len(perms))
	for i, p := range perms {
		permLabels[i] = p.Resource + ":" + p.Action
	}
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: permLabels,
	}
}
