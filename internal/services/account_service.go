package services

import (
	"context"
	"fmt"

	"github.com/isdelr/ender-auth-be/internal/auth"
	"github.com/isdelr/ender-auth-be/internal/database"
	"github.com/isdelr/ender-auth-be/internal/models"
)

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	Register(ctx context.Context, email, password *string) (models.Account, error)
	Authenticate(ctx context.Context, email, password *string) (models.Account, error)
}

// AccountService provides registration and login on top of the users table.
type AccountService struct {
	db     *database.DB
	hasher *auth.PasswordHasher
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *database.DB, hasher *auth.PasswordHasher) *AccountService {
	return &AccountService{db: db, hasher: hasher}
}

// Register hashes the password and stores a new active account.
// email and password are nil when the caller omitted them; empty strings
// are accepted as given.
func (s *AccountService) Register(ctx context.Context, email, password *string) (models.Account, error) {
	if email == nil || password == nil {
		return models.Account{}, ErrMissingCredentials
	}

	hash, err := s.hasher.Hash(*password)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		Email:        *email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if account.ID, err = s.insert(ctx, account); err != nil {
		return models.Account{}, err
	}

	// Don't send the password hash to the client
	account.PasswordHash = ""
	return account, nil
}

func (s *AccountService) insert(ctx context.Context, account models.Account) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistenceErr("begin insert account", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO users (email, password_hash, is_active) VALUES (?, ?, ?) RETURNING id"),
		account.Email, account.PasswordHash, account.IsActive)
	if err = row.Scan(&id); err != nil {
		if database.IsUniqueViolation(err) {
			err = ErrDuplicateEmail
		}
		return 0, persistenceErr("insert account", err)
	}

	if err = tx.Commit(); err != nil {
		if database.IsUniqueViolation(err) {
			err = ErrDuplicateEmail
		}
		return 0, persistenceErr("commit account", err)
	}
	return id, nil
}

// GetAccountByEmail retrieves the single account with this exact email,
// including the password hash.
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind("SELECT id, email, password_hash, is_active FROM users WHERE email = ? LIMIT 2"), email)
	if err != nil {
		return models.Account{}, persistenceErr("query account", err)
	}
	defer rows.Close()

	var found []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.IsActive); err != nil {
			return models.Account{}, persistenceErr("scan account", err)
		}
		found = append(found, a)
	}
	if err := rows.Err(); err != nil {
		return models.Account{}, persistenceErr("query account", err)
	}

	switch len(found) {
	case 0:
		return models.Account{}, ErrAccountNotFound
	case 1:
		return found[0], nil
	default:
		return models.Account{}, persistenceErr("query account", ErrAmbiguousEmail)
	}
}

// Authenticate verifies an account's credentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password *string) (models.Account, error) {
	if email == nil || password == nil {
		return models.Account{}, ErrMissingCredentials
	}

	account, err := s.GetAccountByEmail(ctx, *email)
	if err != nil {
		return models.Account{}, err
	}

	ok, err := s.hasher.Verify(account.PasswordHash, *password)
	if err != nil {
		return models.Account{}, fmt.Errorf("verify password for account %d: %w", account.ID, err)
	}
	if !ok {
		return models.Account{}, ErrInvalidPassword
	}

	account.PasswordHash = ""
	return account, nil
}

// Ping checks that the store is reachable.
func (s *AccountService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
