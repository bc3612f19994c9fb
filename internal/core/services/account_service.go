package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// MaxAccountLevel bounds the depth of the chart of accounts.
const MaxAccountLevel = 10

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	cache       portsrepo.AccountCache
	loads       singleflight.Group

	// gens counts invalidations per account so a load that raced a
	// mutation can tell its row is stale.
	gensMu sync.Mutex
	gens   map[string]uint64
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountCache enables read-through caching of single accounts.
func WithAccountCache(cache portsrepo.AccountCache) AccountServiceOption {
	return func(s *accountService) {
		s.cache = cache
	}
}

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		gens:        make(map[string]uint64),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" {
		return nil, &apperrors.MissingFieldError{Field: "code"}
	}
	if name == "" {
		return nil, &apperrors.MissingFieldError{Field: "name"}
	}
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if !req.Nature.Valid() {
		return nil, fmt.Errorf("%w: unknown account nature %q", apperrors.ErrValidation, req.Nature)
	}
	if err := checkSubtype(req.Subtype, req.AccountType); err != nil {
		return nil, err
	}

	level := 1
	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, &apperrors.InvalidParentError{ParentID: *req.ParentAccountID, Reason: "parent account does not exist"}
			}
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", *req.ParentAccountID))
			return nil, err
		}
		level = parent.Level + 1
		if level > MaxAccountLevel {
			return nil, &apperrors.InvalidParentError{ParentID: parent.AccountID, Reason: fmt.Sprintf("hierarchy deeper than %d levels", MaxAccountLevel)}
		}
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            name,
		AccountType:     req.AccountType,
		Nature:          req.Nature,
		Subtype:         req.Subtype,
		ParentAccountID: req.ParentAccountID,
		Level:           level,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID reads through the cache. Concurrent misses for the same id
// share a single repository load.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if s.cache != nil {
		acc, found, err := s.cache.GetAccount(ctx, accountID)
		if err != nil {
			s.LogWarn(ctx, "Account cache read failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		} else if found {
			return acc, nil
		}
	}

	ch := s.loads.DoChan(accountID, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		gen := s.generation(accountID)
		acc, err := s.accountRepo.FindAccountByID(loadCtx, accountID)
		if err != nil {
			return nil, err
		}
		if s.cache == nil || s.generation(accountID) != gen {
			return acc, nil
		}
		if err := s.cache.SetAccount(loadCtx, *acc); err != nil {
			s.LogWarn(loadCtx, "Account cache write failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
			return acc, nil
		}
		// An invalidation between the check and the write deleted before
		// we wrote; drop the stale row.
		if s.generation(accountID) != gen {
			if err := s.cache.InvalidateAccount(loadCtx, accountID); err != nil {
				s.LogWarn(loadCtx, "Account cache invalidation failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
			}
		}
		return acc, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if !errors.Is(res.Err, apperrors.ErrNotFound) {
				s.LogError(ctx, res.Err, "Failed to find account", slog.String("account_id", accountID))
			}
			return nil, res.Err
		}
		acc := *res.Val.(*domain.Account)
		return &acc, nil
	}
}

func (s *accountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Bool("include_inactive", includeInactive))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	s.LogDebug(ctx, "Accounts listed", slog.Int("count", len(accounts)))
	return accounts, nil
}

// UpdateAccount applies the provided fields. Type and nature cannot change.
// A new parent is checked against self-reference and cycles, and the levels of
// the whole moved subtree are recomputed in the same write.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for update", slog.String("account_id", accountID))
		}
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, &apperrors.MissingFieldError{Field: "code"}
		}
		account.Code = code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &apperrors.MissingFieldError{Field: "name"}
		}
		account.Name = name
	}
	if req.Subtype != nil {
		if err := checkSubtype(*req.Subtype, account.AccountType); err != nil {
			return nil, err
		}
		account.Subtype = *req.Subtype
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	var subtree []domain.Account
	if req.ClearParent || req.ParentAccountID != nil {
		subtree, err = s.reparent(ctx, account, req)
		if err != nil {
			return nil, err
		}
		account = &subtree[0]
	}

	now := s.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if len(subtree) > 1 {
		for i := 1; i < len(subtree); i++ {
			subtree[i].LastUpdatedAt = now
			subtree[i].LastUpdatedBy = userID
		}
		err = s.accountRepo.UpdateAccounts(ctx, subtree)
	} else {
		err = s.accountRepo.UpdateAccount(ctx, *account)
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	ids := []string{account.AccountID}
	for i := 1; i < len(subtree); i++ {
		ids = append(ids, subtree[i].AccountID)
	}
	s.invalidate(ctx, ids...)

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// reparent returns the account with its new parent and level, followed by
// every descendant whose level changed as a result.
func (s *accountService) reparent(ctx context.Context, account *domain.Account, req dto.UpdateAccountRequest) ([]domain.Account, error) {
	var newParentID *string
	if !req.ClearParent {
		newParentID = req.ParentAccountID
	}
	if newParentID != nil && *newParentID == account.AccountID {
		return nil, &apperrors.InvalidParentError{ParentID: *newParentID, Reason: "an account cannot be its own parent"}
	}

	all, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart of accounts for re-parent", slog.String("account_id", account.AccountID))
		return nil, err
	}
	byID := make(map[string]domain.Account, len(all))
	children := make(map[string][]string, len(all))
	for _, a := range all {
		byID[a.AccountID] = a
		if a.ParentAccountID != nil {
			children[*a.ParentAccountID] = append(children[*a.ParentAccountID], a.AccountID)
		}
	}

	level := 1
	if newParentID != nil {
		parent, ok := byID[*newParentID]
		if !ok {
			return nil, &apperrors.InvalidParentError{ParentID: *newParentID, Reason: "parent account does not exist"}
		}
		// Walking up from the new parent must never reach the account itself.
		for cur, hops := &parent, 0; cur != nil; hops++ {
			if cur.AccountID == account.AccountID {
				return nil, &apperrors.InvalidParentError{ParentID: *newParentID, Reason: "parent is a descendant of the account"}
			}
			if cur.ParentAccountID == nil || hops > len(byID) {
				break
			}
			next, ok := byID[*cur.ParentAccountID]
			if !ok {
				break
			}
			cur = &next
		}
		level = parent.Level + 1
	}

	account.ParentAccountID = newParentID
	delta := level - account.Level
	account.Level = level

	result := []domain.Account{*account}
	if delta == 0 {
		return result, nil
	}

	queue := append([]string(nil), children[account.AccountID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		child := byID[id]
		child.Level += delta
		if child.Level > MaxAccountLevel {
			return nil, &apperrors.InvalidParentError{ParentID: account.AccountID, Reason: fmt.Sprintf("hierarchy deeper than %d levels", MaxAccountLevel)}
		}
		result = append(result, child)
		queue = append(queue, children[id]...)
	}
	if account.Level > MaxAccountLevel {
		return nil, &apperrors.InvalidParentError{ParentID: *newParentID, Reason: fmt.Sprintf("hierarchy deeper than %d levels", MaxAccountLevel)}
	}
	return result, nil
}

// DeactivateAccount marks an account as inactive. Historical postings keep resolving it.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return err
	}
	s.invalidate(ctx, accountID)
	s.LogInfo(ctx, "Account deactivated successfully", slog.String("account_id", accountID))
	return nil
}

// DeleteAccount removes an account no posting or child account references.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.invalidate(ctx, accountID)
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("user_id", userID))
	return nil
}

func (s *accountService) generation(accountID string) uint64 {
	s.gensMu.Lock()
	defer s.gensMu.Unlock()
	return s.gens[accountID]
}

// invalidate bumps the generation before deleting so in-flight loads
// either skip the cache write or undo it.
func (s *accountService) invalidate(ctx context.Context, accountIDs ...string) {
	s.gensMu.Lock()
	for _, id := range accountIDs {
		s.gens[id]++
	}
	s.gensMu.Unlock()
	for _, id := range accountIDs {
		s.loads.Forget(id)
	}
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAccount(ctx, accountIDs...); err != nil {
		s.LogError(ctx, err, "Failed to invalidate account cache", slog.Any("account_ids", accountIDs))
	}
}

func checkSubtype(subtype domain.AccountSubtype, accountType domain.AccountType) error {
	if !subtype.Valid() {
		return fmt.Errorf("%w: unknown account subtype %q", apperrors.ErrValidation, subtype)
	}
	if !subtype.CompatibleWith(accountType) {
		return fmt.Errorf("%w: subtype %s cannot be used on %s accounts", apperrors.ErrValidation, subtype, accountType)
	}
	return nil
}
