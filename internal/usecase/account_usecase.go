package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gowallet/internal/domain"
)

// PinHashCost is the bcrypt cost used for new pins.
var PinHashCost = bcrypt.DefaultCost

// AccountUseCase handles onboarding and login.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	idGen       IDGenerator
	auditor     AuditRecorder
	adminPhones map[string]bool
	now         func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase. Accounts registered with a
// phone in adminPhones authenticate with the admin role.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	idGen IDGenerator,
	auditor AuditRecorder,
	adminPhones []string,
) *AccountUseCase {
	admins := make(map[string]bool, len(adminPhones))
	for _, p := range adminPhones {
		if normalized, err := domain.NormalizePhone(p); err == nil {
			admins[normalized] = true
		}
	}

	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		auditor:     auditor,
		adminPhones: admins,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput represents input for opening an account.
type RegisterInput struct {
	Meta  RequestMeta
	Name  string
	Phone string
	Pin   string
}

// Register opens a zero-balance account.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	account, err := uc.register(ctx, input)

	entityID := ""
	if account != nil {
		entityID = account.ID
	}
	uc.audit(ctx, AuditEntry{
		Meta:       input.Meta,
		ActorID:    entityID,
		Action:     domain.AuditActionUserRegistered,
		EntityType: domain.AuditEntityUser,
		EntityID:   entityID,
		Details:    domain.JSON{"phone": input.Phone},
		Err:        err,
	})

	return account, err
}

func (uc *AccountUseCase) register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePin(input.Pin); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByPhone(ctx, phone); err == nil {
		return nil, domain.ErrPhoneTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	pinHash, err := hashPin(input.Pin)
	if err != nil {
		return nil, err
	}

	account := domain.NewAccount(uc.idGen.Generate(), strings.TrimSpace(input.Name), phone, pinHash, uc.now())

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, domain.NewInfrastructureError("begin transaction", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	// A concurrent registration of the same phone surfaces here as ErrPhoneTaken.
	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.NewInfrastructureError("commit registration", err)
	}

	return account, nil
}

// AuthenticateInput represents login credentials.
type AuthenticateInput struct {
	Meta  RequestMeta
	Phone string
	Pin   string
}

// Authenticate checks a phone and pin and returns the caller's principal.
func (uc *AccountUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.Principal, error) {
	principal, err := uc.authenticate(ctx, input)

	actorID := ""
	if principal != nil {
		actorID = principal.AccountID
	}
	uc.audit(ctx, AuditEntry{
		Meta:       input.Meta,
		ActorID:    actorID,
		Action:     domain.AuditActionUserLogin,
		EntityType: domain.AuditEntityAuthentication,
		EntityID:   actorID,
		Details:    domain.JSON{"phone": input.Phone},
		Err:        err,
	})

	return principal, err
}

func (uc *AccountUseCase) authenticate(ctx context.Context, input AuthenticateInput) (*domain.Principal, error) {
	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := uc.accountRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := verifyPin(account.PinHash, input.Pin); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.PrincipalFor(account), nil
}

// PrincipalFor builds the principal a token is issued for.
func (uc *AccountUseCase) PrincipalFor(account *domain.Account) *domain.Principal {
	role := domain.RoleCustomer
	if uc.adminPhones[account.Phone] {
		role = domain.RoleAdmin
	}

	return &domain.Principal{
		AccountID: account.ID,
		Phone:     account.Phone,
		Role:      role,
	}
}

// GetAccount retrieves an account by ID without its pin hash.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.PinHash = ""
	return account, nil
}

// Logout only records the event; tokens are stateless.
func (uc *AccountUseCase) Logout(ctx context.Context, accountID string, meta RequestMeta) {
	uc.audit(ctx, AuditEntry{
		Meta:       meta,
		ActorID:    accountID,
		Action:     domain.AuditActionUserLogout,
		EntityType: domain.AuditEntityAuthentication,
		EntityID:   accountID,
	})
}

func (uc *AccountUseCase) audit(ctx context.Context, entry AuditEntry) {
	if uc.auditor == nil {
		return
	}
	// Audit failures never fail the caller.
	_ = uc.auditor.Record(context.WithoutCancel(ctx), entry)
}

// hashPin hashes a pin using bcrypt
func hashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), PinHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPin verifies a pin against a hash
func verifyPin(hash, pin string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
}
