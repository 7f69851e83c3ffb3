package user_test

import (
	"context"
	"testing"

	"shelfmarket/internal/user"
	usererrors "shelfmarket/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	createFn      func(ctx context.Context, u *user.User) error
	findByIDFn    func(ctx context.Context, id string) (*user.User, error)
	findByEmailFn func(ctx context.Context, email string) (*user.User, error)
	updateFn      func(ctx context.Context, u *user.User) error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindAll(ctx context.Context) ([]user.User, error) { return nil, nil }
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

type fakeAssigner struct {
	assignFn func(userID, roleName string) error
}

func (f *fakeAssigner) AssignRoleToUser(userID, roleName string) error {
	if f.assignFn != nil {
		return f.assignFn(userID, roleName)
	}
	return nil
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the customer role", func(t *testing.T) {
		var created *user.User
		repo := &fakeUserRepo{
			createFn: func(ctx context.Context, u *user.User) error {
				u.ID = uuid.New()
				created = u
				return nil
			},
		}
		svc := user.NewService(repo, &fakeAssigner{})

		resp, err := svc.Create(ctx, user.CreateUserRequest{
			Name:     "Support Sam",
			Email:    "sam@mail.com",
			Password: "longenough",
		})
		require.NoError(t, err)
		assert.Equal(t, user.RoleCustomer, resp.Role)
		assert.True(t, created.IsActive)
		assert.NotEqual(t, "longenough", created.Password)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepo{})

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name:     "X",
			Email:    "x@mail.com",
			Password: "longenough",
			Role:     "SUPERADMIN",
		})
		assert.ErrorIs(t, err, usererrors.ErrUnknownRole)
	})

	t.Run("email already taken", func(t *testing.T) {
		repo := &fakeUserRepo{
			findByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return &user.User{ID: uuid.New(), Email: email}, nil
			},
		}
		svc := user.NewService(repo)

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name:     "X",
			Email:    "taken@mail.com",
			Password: "longenough",
		})
		assert.ErrorIs(t, err, usererrors.ErrEmailAlreadyExists)
	})

	t.Run("role binding registered for new staff", func(t *testing.T) {
		var boundRole string
		repo := &fakeUserRepo{
			createFn: func(ctx context.Context, u *user.User) error {
				u.ID = uuid.New()
				return nil
			},
		}
		assigner := &fakeAssigner{
			assignFn: func(userID, roleName string) error {
				boundRole = roleName
				return nil
			},
		}
		svc := user.NewService(repo, assigner)

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name:     "Support Sam",
			Email:    "sam@mail.com",
			Password: "longenough",
			Role:     user.RoleSupport,
		})
		require.NoError(t, err)
		assert.Equal(t, user.RoleSupport, boundRole)
	})
}

func TestUserService_AssignRole(t *testing.T) {
	ctx := context.Background()

	t.Run("updates both the binding and the user row", func(t *testing.T) {
		u := &user.User{ID: uuid.New(), Role: user.RoleCustomer}
		var boundID, boundRole string
		var updated *user.User
		repo := &fakeUserRepo{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return u, nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				updated = u
				return nil
			},
		}
		assigner := &fakeAssigner{
			assignFn: func(userID, roleName string) error {
				boundID, boundRole = userID, roleName
				return nil
			},
		}
		svc := user.NewService(repo, assigner)

		require.NoError(t, svc.AssignRole(ctx, u.ID.String(), user.RoleSupport))
		assert.Equal(t, u.ID.String(), boundID)
		assert.Equal(t, user.RoleSupport, boundRole)
		assert.Equal(t, user.RoleSupport, updated.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepo{}, &fakeAssigner{})
		err := svc.AssignRole(ctx, uuid.New().String(), user.RoleAdmin)
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	currentHash := func(t *testing.T, pw string) string {
		t.Helper()
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		require.NoError(t, err)
		return string(h)
	}

	t.Run("rehashes on success", func(t *testing.T) {
		u := &user.User{ID: uuid.New(), Password: currentHash(t, "oldpass")}
		var updated *user.User
		repo := &fakeUserRepo{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return u, nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				updated = u
				return nil
			},
		}
		svc := user.NewService(repo)

		require.NoError(t, svc.ChangePassword(ctx, u.ID.String(), "oldpass", "newpassword"))
		require.NotNil(t, updated)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpassword")))
	})

	t.Run("wrong current password", func(t *testing.T) {
		u := &user.User{ID: uuid.New(), Password: currentHash(t, "oldpass")}
		repo := &fakeUserRepo{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return u, nil
			},
		}
		svc := user.NewService(repo)

		err := svc.ChangePassword(ctx, u.ID.String(), "guess", "newpassword")
		assert.ErrorIs(t, err, usererrors.ErrWrongCurrentPassword)
	})
}

func TestUserService_ToggleStatus(t *testing.T) {
	ctx := context.Background()

	u := &user.User{ID: uuid.New(), IsActive: true}
	var updated *user.User
	repo := &fakeUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
			return u, nil
		},
		updateFn: func(ctx context.Context, u *user.User) error {
			updated = u
			return nil
		},
	}
	svc := user.NewService(repo)

	require.NoError(t, svc.ToggleStatus(ctx, u.ID.String(), false))
	require.NotNil(t, updated)
	assert.False(t, updated.IsActive)
}
