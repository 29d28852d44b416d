package impl

import (
	"sync"
	"testing"

	"elogbook/internal/domain/entity"
	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/infra/auth"
	"elogbook/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_ListAndStaff(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.accounts()

	all, err := svc.ListAccounts(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "admin", all[0].Username)

	staff, err := svc.ListStaff(f.ctx)
	require.NoError(t, err)
	assert.Len(t, staff, 3, "inactive staff is still staff")

	view, err := svc.GetAccount(f.ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, view.Status)

	_, err = svc.GetAccount(f.ctx, 99)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountService_CreateAccount(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.accounts()

	view, err := svc.CreateAccount(f.ctx, usecase.CreateAccountInput{
		Username: "  jose ",
		Password: "pw123",
		FullName: "Jose Rizal",
		Role:     entity.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, view.ID)
	assert.Equal(t, "jose", view.Username)
	assert.Equal(t, entity.StatusActive, view.Status)

	ws, err := f.provider.Open(f.ctx, "scope-test")
	require.NoError(t, err)
	stored, err := ws.Accounts().FindByID(f.ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "pw123", stored.Password)
}

func TestAccountService_CreateAccount_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateAccountInput
		wantErr error
	}{
		{
			name:    "duplicate username",
			input:   usecase.CreateAccountInput{Username: "maria", Password: "x", FullName: "Other Maria", Role: entity.RoleStaff},
			wantErr: domainerrors.ErrUsernameTaken,
		},
		{
			name:    "invalid role",
			input:   usecase.CreateAccountInput{Username: "x", Password: "x", FullName: "X", Role: "owner"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "invalid status",
			input:   usecase.CreateAccountInput{Username: "x", Password: "x", FullName: "X", Role: entity.RoleStaff, Status: "banned"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "empty password",
			input:   usecase.CreateAccountInput{Username: "x", FullName: "X", Role: entity.RoleStaff},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "blank username",
			input:   usecase.CreateAccountInput{Username: "   ", Password: "x", FullName: "X", Role: entity.RoleStaff},
			wantErr: domainerrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			svc := f.accounts()

			_, err := svc.CreateAccount(f.ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			all, err := svc.ListAccounts(f.ctx)
			require.NoError(t, err)
			assert.Len(t, all, 4)
		})
	}
}

func TestAccountService_CreateAccount_HashesUnderBcrypt(t *testing.T) {
	f := newFixture(t, auth.NewBcryptHasher(4))

	_, err := f.accounts().CreateAccount(f.ctx, usecase.CreateAccountInput{
		Username: "jose", Password: "pw123", FullName: "Jose Rizal", Role: entity.RoleStaff,
	})
	require.NoError(t, err)

	ws, err := f.provider.Open(f.ctx, "scope-test")
	require.NoError(t, err)
	stored, err := ws.Accounts().FindByID(f.ctx, 5)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.Password)

	f.login("jose", "pw123")
}

func TestAccountService_UpdateAccount(t *testing.T) {
	f := newFixture(t, auth.NewBcryptHasher(4))
	svc := f.accounts()

	patch := &entity.AccountPatch{
		FullName: ptr("Maria S. Santos"),
		Password: ptr("newpass"),
		Status:   ptr(entity.StatusInactive),
	}
	view, err := svc.UpdateAccount(f.ctx, 2, patch)
	require.NoError(t, err)
	assert.Equal(t, 2, view.ID)
	assert.Equal(t, "Maria S. Santos", view.FullName)
	assert.Equal(t, entity.StatusInactive, view.Status)
	assert.Equal(t, "newpass", *patch.Password, "caller's patch is left untouched")

	// Reactivate and log in with the new secret.
	_, err = svc.UpdateAccount(f.ctx, 2, &entity.AccountPatch{Status: ptr(entity.StatusActive)})
	require.NoError(t, err)
	f.login("maria", "newpass")
}

func TestAccountService_UpdateAccount_Rejects(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.accounts()

	_, err := svc.UpdateAccount(f.ctx, 2, &entity.AccountPatch{Username: ptr("pedro")})
	assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)

	_, err = svc.UpdateAccount(f.ctx, 99, &entity.AccountPatch{FullName: ptr("Nobody")})
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)

	_, err = svc.UpdateAccount(f.ctx, 99, &entity.AccountPatch{})
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)

	_, err = svc.UpdateAccount(f.ctx, 2, &entity.AccountPatch{Role: ptr(entity.Role("owner"))})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	view, err := svc.UpdateAccount(f.ctx, 2, &entity.AccountPatch{Username: ptr("maria")})
	require.NoError(t, err, "keeping one's own username is not a conflict")
	assert.Equal(t, "maria", view.Username)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.accounts()

	require.NoError(t, svc.DeleteAccount(f.ctx, 3))
	require.NoError(t, svc.DeleteAccount(f.ctx, 3))

	all, err := svc.ListAccounts(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.GetAccount(f.ctx, 3)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountService_CreateAccount_ConcurrentSameUsername(t *testing.T) {
	f := newFixture(t, nil)
	svc := f.accounts()

	const callers = 20
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateAccount(f.ctx, usecase.CreateAccountInput{
				Username: "jose", Password: "pw123", FullName: "Jose Rizal", Role: entity.RoleStaff,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++

			continue
		}
		assert.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
	}
	assert.Equal(t, 1, created)

	all, err := svc.ListAccounts(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
