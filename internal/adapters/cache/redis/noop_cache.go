package redis

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// NoopAccountCache never stores anything. It is used when REDIS_URL is unset.
type NoopAccountCache struct{}

var _ portsrepo.AccountCache = NoopAccountCache{}

func (NoopAccountCache) GetAccount(context.Context, string) (*domain.Account, bool, error) {
	return nil, false, nil
}

func (NoopAccountCache) SetAccount(context.Context, domain.Account) error { return nil }

func (NoopAccountCache) InvalidateAccount(context.Context, ...string) error { return nil }
