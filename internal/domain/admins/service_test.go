package admins

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewRepository(memory.NewCollection[Admin](memory.NewStore(), Collection)))
	svc.hashCost = bcrypt.MinCost
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func mustCreate(t *testing.T, svc *Service, username, email string) Admin {
	t.Helper()
	a, err := svc.Create(context.Background(), CreateInput{
		Username: username,
		Email:    email,
		Password: "s3cretpass",
		Role:     auth.RoleAdmin,
	})
	require.NoError(t, err)
	return a
}

func TestService_Create_HashesAndNormalizes(t *testing.T) {
	svc := newTestService(t)
	a := mustCreate(t, svc, "  Laura ", "Laura@Example.com")

	assert.Equal(t, "laura", a.Username)
	assert.Equal(t, "laura@example.com", a.Email)
	assert.True(t, a.Active)
	assert.NotEqual(t, "s3cretpass", a.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("s3cretpass")))
}

func TestService_Create_RejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, "laura", "laura@example.com")

	_, err := svc.Create(context.Background(), CreateInput{
		Username: "LAURA", Email: "other@example.com", Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = svc.Create(context.Background(), CreateInput{
		Username: "other", Email: "LAURA@example.com", Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Username: "x", Email: "x@y.z", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Create(ctx, CreateInput{Username: "x", Email: "not-an-email", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Username: "x", Email: "x@y.z", Password: "longenough", Role: "janitor"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Create(ctx, CreateInput{
		Username: "x", Email: "x@y.z", Password: "longenough",
		Permissions: map[string]bool{"everything": true},
	})
	assert.ErrorIs(t, err, ErrInvalidPerm)
}

func TestService_Update_UniquenessExcludesSelf(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, "laura", "laura@example.com")
	mustCreate(t, svc, "pablo", "pablo@example.com")

	// mismo username propio: ok
	same := "Laura"
	name := "Laura Gómez"
	updated, err := svc.Update(ctx, a.ID, UpdateInput{Username: &same, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Laura Gómez", updated.Name)

	taken := "pablo"
	_, err = svc.Update(ctx, a.ID, UpdateInput{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	takenEmail := "PABLO@example.com"
	_, err = svc.Update(ctx, a.ID, UpdateInput{Email: &takenEmail})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Update_PasswordChange(t *testing.T) {
	svc := newTestService(t)
	a := mustCreate(t, svc, "laura", "laura@example.com")

	pw := "newpassword"
	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{Password: &pw})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(pw)))
}

func TestService_Setup_OnlyOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	root, err := svc.Setup(ctx, CreateInput{Username: "root", Email: "root@example.com", Password: "rootpassword"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuperAdmin, root.Role)

	_, err = svc.Setup(ctx, CreateInput{Username: "root2", Email: "root2@example.com", Password: "rootpassword"})
	assert.ErrorIs(t, err, ErrSetupDone)
}

func TestService_Delete_NotSelf(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, "laura", "laura@example.com")
	b := mustCreate(t, svc, "pablo", "pablo@example.com")

	assert.ErrorIs(t, svc.Delete(ctx, a.ID, a.ID), ErrCannotDeleteSelf)
	require.NoError(t, svc.Delete(ctx, a.ID, b.ID))
	_, err := svc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateLinked(t *testing.T) {
	svc := newTestService(t)
	hash, err := svc.HashPassword("centerpass")
	require.NoError(t, err)

	a, err := svc.CreateLinked(context.Background(), LinkedInput{
		Username: "happypaws", Email: "hello@happypaws.com", PasswordHash: hash, CenterID: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleBoardingCenter, a.Role)
	assert.Equal(t, "c1", a.CenterID)
	assert.True(t, a.Claims().Can(auth.PermBoarding))
	assert.False(t, a.Claims().Can(auth.PermProducts))
}
