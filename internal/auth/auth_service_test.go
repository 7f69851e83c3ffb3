package auth_test

import (
	"context"
	"testing"

	"shelfmarket/internal/auth"
	autherrors "shelfmarket/internal/auth/errors"
	"shelfmarket/internal/rbac"
	"shelfmarket/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepo struct {
	createFn     func(ctx context.Context, u *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeAuthRepo) Create(ctx context.Context, u *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}
func (f *fakeAuthRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRBAC struct {
	assignFn func(userID, roleName string) error
}

func (f *fakeRBAC) LoadPolicy() error { return nil }
func (f *fakeRBAC) Enforce(req rbac.EnforceRequest) (bool, error) { return true, nil }
func (f *fakeRBAC) ListRoles() ([]rbac.RoleResponse, error) { return nil, nil }
func (f *fakeRBAC) GetRole(id string) (*rbac.RoleResponse, error) { return nil, nil }
func (f *fakeRBAC) CreateRole(req rbac.CreateRoleRequest) (*rbac.RoleResponse, error) {
	return nil, nil
}
func (f *fakeRBAC) UpdateRole(id string, req rbac.UpdateRoleRequest) (*rbac.RoleResponse, error) {
	return nil, nil
}
func (f *fakeRBAC) DeleteRole(id string) error { return nil }
func (f *fakeRBAC) ListPermissions() ([]rbac.PermissionResponse, error) { return nil, nil }
func (f *fakeRBAC) AssignRoleToUser(userID, roleName string) error {
	if f.assignFn != nil {
		return f.assignFn(userID, roleName)
	}
	return nil
}

func activeUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{
		ID:       uuid.New(),
		Name:     "Jane Admin",
		Email:    "jane@mail.com",
		Password: string(hashed),
		Role:     "ADMIN",
		IsActive: true,
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		u := activeUser(t, "s3cretpass")
		repo := &fakeAuthRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				assert.Equal(t, "jane@mail.com", email)
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBAC{})

		access, refresh, resp, err := svc.Login(ctx, "jane@mail.com", "s3cretpass")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)
		assert.Equal(t, u.ID.String(), resp.ID)
		assert.Equal(t, "ADMIN", resp.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		u := activeUser(t, "s3cretpass")
		repo := &fakeAuthRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBAC{})

		_, _, _, err := svc.Login(ctx, "jane@mail.com", "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as a bad password", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepo{}, &fakeRBAC{})

		_, _, _, err := svc.Login(ctx, "nobody@mail.com", "whatever")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		u := activeUser(t, "s3cretpass")
		u.IsActive = false
		repo := &fakeAuthRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBAC{})

		_, _, _, err := svc.Login(ctx, "jane@mail.com", "s3cretpass")
		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("rotates a valid refresh token", func(t *testing.T) {
		u := activeUser(t, "s3cretpass")
		repo := &fakeAuthRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return u, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				assert.Equal(t, u.ID, id)
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBAC{})

		_, refresh, _, err := svc.Login(ctx, "jane@mail.com", "s3cretpass")
		require.NoError(t, err)

		access, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, u.ID.String(), resp.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepo{}, &fakeRBAC{})

		_, _, _, err := svc.RefreshToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("token survives but the account was disabled", func(t *testing.T) {
		u := activeUser(t, "s3cretpass")
		repo := &fakeAuthRepo{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return u, nil
			},
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBAC{})

		_, refresh, _, err := svc.Login(ctx, "jane@mail.com", "s3cretpass")
		require.NoError(t, err)

		u.IsActive = false
		_, _, _, err = svc.RefreshToken(ctx, refresh)
		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	t.Run("new customer gets the customer role", func(t *testing.T) {
		var created *auth.User
		var assignedRole string
		repo := &fakeAuthRepo{
			createFn: func(ctx context.Context, u *auth.User) error {
				created = u
				return nil
			},
		}
		rbacFake := &fakeRBAC{
			assignFn: func(userID, roleName string) error {
				assignedRole = roleName
				return nil
			},
		}
		svc := auth.NewService(repo, rbacFake)

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "buyer@mail.com",
			Name:     "New Buyer",
			Password: "longenough",
		})
		require.NoError(t, err)
		assert.Equal(t, user.RoleCustomer, resp.Role)
		assert.Equal(t, user.RoleCustomer, assignedRole)
		assert.True(t, created.IsActive)
		assert.NotEqual(t, "longenough", created.Password, "password must be stored hashed")
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &fakeAuthRepo{
			createFn: func(ctx context.Context, u *auth.User) error {
				return gorm.ErrDuplicatedKey
			},
		}
		svc := auth.NewService(repo, &fakeRBAC{})

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "taken@mail.com",
			Name:     "Too Late",
			Password: "longenough",
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the profile", func(t *testing.T) {
		u := activeUser(t, "s3cretpass")
		repo := &fakeAuthRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeRBAC{})

		resp, err := svc.GetMe(ctx, u.ID.String())
		require.NoError(t, err)
		assert.Equal(t, u.Email, resp.Email)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepo{}, &fakeRBAC{})

		_, err := svc.GetMe(ctx, "nope")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})
}
