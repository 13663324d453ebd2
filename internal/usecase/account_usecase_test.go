package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func init() {
	usecase.PinHashCost = bcrypt.MinCost
}

func TestAccountUseCase_Register(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.RegisterInput
		wantErr error
	}{
		{
			name:  "registers with normalized phone",
			input: usecase.RegisterInput{Name: "  Alice ", Phone: "+1 (555) 000-0001", Pin: "1234"},
		},
		{
			name:    "empty name",
			input:   usecase.RegisterInput{Name: " ", Phone: "+15550000001", Pin: "1234"},
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "bad phone",
			input:   usecase.RegisterInput{Name: "Alice", Phone: "12", Pin: "1234"},
			wantErr: domain.ErrInvalidPhone,
		},
		{
			name:    "short pin",
			input:   usecase.RegisterInput{Name: "Alice", Phone: "+15550000001", Pin: "12"},
			wantErr: domain.ErrInvalidPin,
		},
		{
			name:    "non numeric pin",
			input:   usecase.RegisterInput{Name: "Alice", Phone: "+15550000001", Pin: "12ab"},
			wantErr: domain.ErrInvalidPin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newWalletEnv(t, time.Second)
			uc := usecase.NewAccountUseCase(env.txManager, env.accounts, &seqIDGenerator{prefix: "acc"}, env.auditor, nil)

			acc, err := uc.Register(context.Background(), tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Alice", acc.Name)
			assert.Equal(t, "+15550000001", acc.Phone)
			assert.True(t, acc.Balance.IsZero())
			assert.NotEqual(t, "1234", acc.PinHash)

			stored, err := env.accounts.GetByPhone(context.Background(), "+15550000001")
			require.NoError(t, err)
			assert.Equal(t, acc.ID, stored.ID)
		})
	}
}

func TestAccountUseCase_RegisterDuplicatePhone(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	uc := usecase.NewAccountUseCase(env.txManager, env.accounts, &seqIDGenerator{prefix: "acc"}, env.auditor, nil)
	ctx := context.Background()

	_, err := uc.Register(ctx, usecase.RegisterInput{Name: "Alice", Phone: "+15550000001", Pin: "1234"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, usecase.RegisterInput{Name: "Mallory", Phone: "+1-555-000-0001", Pin: "9999"})
	assert.ErrorIs(t, err, domain.ErrPhoneTaken)

	logs, err := env.audits.List(ctx, domain.AuditFilter{Action: domain.AuditActionUserRegistered, Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditStatusFailure, logs[0].Status)
	assert.Equal(t, domain.AuditStatusSuccess, logs[1].Status)
}

func TestAccountUseCase_Authenticate(t *testing.T) {
	env := newWalletEnv(t, time.Second)
	uc := usecase.NewAccountUseCase(env.txManager, env.accounts, &seqIDGenerator{prefix: "acc"}, env.auditor, []string{"+1 555 000 0009"})
	ctx := context.Background()

	alice, err := uc.Register(ctx, usecase.RegisterInput{Name: "Alice", Phone: "+15550000001", Pin: "1234"})
	require.NoError(t, err)
	admin, err := uc.Register(ctx, usecase.RegisterInput{Name: "Ops", Phone: "+15550000009", Pin: "654321"})
	require.NoError(t, err)

	principal, err := uc.Authenticate(ctx, usecase.AuthenticateInput{Phone: "+15550000001", Pin: "1234"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, principal.AccountID)
	assert.Equal(t, domain.RoleCustomer, principal.Role)

	principal, err = uc.Authenticate(ctx, usecase.AuthenticateInput{Phone: "+15550000009", Pin: "654321"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, principal.AccountID)
	assert.Equal(t, domain.RoleAdmin, principal.Role)

	_, err = uc.Authenticate(ctx, usecase.AuthenticateInput{Phone: "+15550000001", Pin: "0000"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Authenticate(ctx, usecase.AuthenticateInput{Phone: "+15550000002", Pin: "1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Authenticate(ctx, usecase.AuthenticateInput{Phone: "garbage", Pin: "1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAccountUseCase_GetAccountHidesPinHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAccountRepository(ctrl)

	repo.EXPECT().GetByID(gomock.Any(), "acc-1").Return(&domain.Account{ID: "acc-1", PinHash: "secret"}, nil)
	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrAccountNotFound)

	uc := usecase.NewAccountUseCase(nil, repo, nil, nil, nil)

	acc, err := uc.GetAccount(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Empty(t, acc.PinHash)

	_, err = uc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_RegisterStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAccountRepository(ctrl)
	txm := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	repo.EXPECT().GetByPhone(gomock.Any(), "+15550000001").Return(nil, domain.ErrAccountNotFound)
	idGen.EXPECT().Generate().Return("acc-1")
	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	repo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(errors.New("connection reset"))
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewAccountUseCase(txm, repo, idGen, nil, nil)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{Name: "Alice", Phone: "+15550000001", Pin: "1234"})
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}
