package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, nature, subtype, parent_account_id, level,
	description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Nature,
		&m.Subtype,
		&m.ParentAccountID,
		&m.Level,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// mapAccountWriteErr translates constraint violations on the accounts table.
func mapAccountWriteErr(err error, account domain.Account) error {
	code, constraint := pgErrorCode(err)
	switch code {
	case pgUniqueViolation:
		if constraint == "accounts_code_key" {
			return &apperrors.DuplicateCodeError{Code: account.Code}
		}
		return apperrors.ErrDuplicate
	case pgForeignKeyViolation:
		parentID := ""
		if account.ParentAccountID != nil {
			parentID = *account.ParentAccountID
		}
		return &apperrors.InvalidParentError{ParentID: parentID, Reason: "parent account does not exist"}
	case pgCheckViolation:
		if constraint == "accounts_parent_not_self" {
			return &apperrors.InvalidParentError{ParentID: account.AccountID, Reason: "an account cannot be its own parent"}
		}
	}
	return wrapErrf(err, "save account %s", account.AccountID)
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Nature,
		m.Subtype,
		m.ParentAccountID,
		m.Level,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapAccountWriteErr(err, account)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", accountID)
		}
		return nil, wrapErrf(err, "find account %s", accountID)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account code", code)
		}
		return nil, wrapErrf(err, "find account by code %s", code)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1::uuid[]);`
	return r.queryAccountMap(ctx, r.Pool, query, accountIDs)
}

// lockAccountsForPosting reads the given accounts with a share lock so they
// cannot be deactivated or deleted until the posting transaction ends.
func (r *PgxAccountRepository) lockAccountsForPosting(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1::uuid[]) ORDER BY account_id FOR SHARE;`
	return r.queryAccountMap(ctx, tx, query, accountIDs)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxAccountRepository) queryAccountMap(ctx context.Context, q querier, query string, accountIDs []string) (map[string]domain.Account, error) {
	rows, err := q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, wrapErr("query accounts by ids", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, wrapErr("scan account row", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate account rows", err)
	}
	return accounts, nil
}

// ListAccounts retrieves the chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ($1 OR is_active) ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, wrapErr("list accounts", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, wrapErr("scan account row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate account rows", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

const updateAccountQuery = `
	UPDATE accounts
	SET code = $2, name = $3, subtype = $4, parent_account_id = $5, level = $6,
	    description = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
	WHERE account_id = $1;
`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateAccountRow(ctx context.Context, e execer, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	tag, err := e.Exec(ctx, updateAccountQuery,
		m.AccountID,
		m.Code,
		m.Name,
		m.Subtype,
		m.ParentAccountID,
		m.Level,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapAccountWriteErr(err, account)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("account", account.AccountID)
	}
	return nil
}

// UpdateAccount updates the mutable columns of an account. Type and nature are never written.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return updateAccountRow(ctx, r.Pool, account)
}

// UpdateAccounts updates several accounts in one transaction. It is used when a
// re-parent changes the level of a whole subtree.
func (r *PgxAccountRepository) UpdateAccounts(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		for _, acc := range accounts {
			if err := updateAccountRow(ctx, tx, acc); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return wrapErrf(err, "deactivate account %s", accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("account", accountID)
	}
	return nil
}

// DeleteAccount removes an account. Postings and child accounts reference
// accounts with ON DELETE RESTRICT, so a referenced account cannot be removed.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return &apperrors.ReferencedAccountError{AccountID: accountID}
		}
		return wrapErrf(err, "delete account %s", accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("account", accountID)
	}
	return nil
}
