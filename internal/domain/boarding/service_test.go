package boarding

import (
	"context"
	"testing"

	"pet-services/internal/adapters/storage/memory"
	"pet-services/internal/domain/admins"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc    *Service
	admins *admins.Service
	rec    *events.Recorder
	root   auth.Claims
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	adminSvc := admins.NewService(admins.NewRepository(memory.NewCollection[admins.Admin](store, admins.Collection)))
	rec := &events.Recorder{}
	svc := NewService(NewRepository(memory.NewCollection[Center](store, Collection)), adminSvc, rec, logger.Nop())
	svc.hashCost = bcrypt.MinCost
	return &fixture{svc: svc, admins: adminSvc, rec: rec, root: auth.Claims{UserID: "root", Role: auth.RoleSuperAdmin}}
}

func (f *fixture) register(t *testing.T, username string) Center {
	t.Helper()
	c, err := f.svc.Register(context.Background(), RegisterInput{
		Profile: Profile{
			Name:        "Happy Paws",
			OwnerName:   "Lucía",
			Email:       username + "@example.com",
			City:        "Córdoba",
			Services:    map[string]bool{"daycare": true},
			PetTypes:    map[string]bool{"dog": true, "cat": false},
			PricePerDay: 3500,
			Capacity:    12,
		},
		Username: username,
		Password: "centerpass",
	})
	require.NoError(t, err)
	return c
}

func TestRegister_Pending(t *testing.T) {
	f := newFixture(t)
	c := f.register(t, "happypaws")
	assert.Equal(t, StatusPending, c.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("centerpass")))
	_, ok := f.rec.Last(events.BoardingRegistered)
	assert.True(t, ok)
}

func TestApprove_CreatesLinkedAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.register(t, "happypaws")

	approved, err := f.svc.Approve(ctx, f.root, c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotEmpty(t, approved.AdminID)

	acct, err := f.admins.GetByID(ctx, approved.AdminID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleBoardingCenter, acct.Role)
	assert.Equal(t, c.ID, acct.CenterID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("centerpass")))

	_, err = f.svc.Approve(ctx, f.root, c.ID)
	assert.ErrorIs(t, err, ErrNotPending)

	public, err := f.svc.ListApproved(ctx, "")
	require.NoError(t, err)
	assert.Len(t, public, 1)
}

func TestApprove_UsernameTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.admins.Create(ctx, admins.CreateInput{Username: "happypaws", Email: "x@example.com", Password: "whatever1"})
	require.NoError(t, err)

	c := f.register(t, "happypaws")
	_, err = f.svc.Approve(ctx, f.root, c.ID)
	assert.ErrorIs(t, err, admins.ErrUsernameTaken)

	still, err := f.svc.Get(ctx, f.root, c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, still.Status)
}

func TestUpdate_SyncsLinkedAccountEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.register(t, "happypaws")
	approved, err := f.svc.Approve(ctx, f.root, c.ID)
	require.NoError(t, err)

	profile := Profile{
		Name:        approved.Name,
		OwnerName:   approved.OwnerName,
		Email:       "Reservas@HappyPaws.com",
		City:        approved.City,
		Services:    approved.Services,
		PetTypes:    approved.PetTypes,
		PricePerDay: approved.PricePerDay,
		Capacity:    approved.Capacity,
	}
	updated, err := f.svc.Update(ctx, f.root, c.ID, profile)
	require.NoError(t, err)
	assert.Equal(t, "reservas@happypaws.com", updated.Email)

	acct, err := f.admins.GetByID(ctx, approved.AdminID)
	require.NoError(t, err)
	assert.Equal(t, "reservas@happypaws.com", acct.Email)

	// email de otra cuenta: no se guarda nada
	_, err = f.admins.Create(ctx, admins.CreateInput{Username: "otro", Email: "otro@example.com", Password: "whatever1"})
	require.NoError(t, err)
	profile.Email = "otro@example.com"
	_, err = f.svc.Update(ctx, f.root, c.ID, profile)
	assert.ErrorIs(t, err, admins.ErrEmailTaken)

	still, err := f.svc.Get(ctx, f.root, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "reservas@happypaws.com", still.Email)
}

func TestReject_OnlyFromPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.register(t, "happypaws")

	_, err := f.svc.Reject(ctx, f.root, c.ID, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	rejected, err := f.svc.Reject(ctx, f.root, c.ID, "documentación incompleta")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	e, ok := f.rec.Last(events.BoardingRejected)
	require.True(t, ok)
	assert.Equal(t, "documentación incompleta", e.Data["reason"])

	_, err = f.svc.Approve(ctx, f.root, c.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCenterAccount_ScopedToOwnCenter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.register(t, "mine")
	other := f.register(t, "other")

	actor := auth.Claims{UserID: "acct", Role: auth.RoleBoardingCenter, CenterID: mine.ID}

	_, err := f.svc.Get(ctx, actor, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Approve(ctx, actor, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := f.svc.List(ctx, actor, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}
