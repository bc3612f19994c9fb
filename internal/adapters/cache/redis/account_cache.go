package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	goredis "github.com/redis/go-redis/v9"
)

const accountKeyPrefix = "ledger:account:"

// AccountCache stores accounts as JSON under ledger:account:<id>.
type AccountCache struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ portsrepo.AccountCache = (*AccountCache)(nil)

// NewAccountCache wraps an existing client. A non-positive ttl disables expiry.
func NewAccountCache(client *goredis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

func accountKey(id string) string {
	return accountKeyPrefix + id
}

// GetAccount returns the cached account and whether it was present.
func (c *AccountCache) GetAccount(ctx context.Context, accountID string) (*domain.Account, bool, error) {
	raw, err := c.client.Get(ctx, accountKey(accountID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get account %s: %w", accountID, err)
	}
	var acc domain.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.client.Del(ctx, accountKey(accountID)).Err()
		return nil, false, nil
	}
	return &acc, true, nil
}

// SetAccount stores an account.
func (c *AccountCache) SetAccount(ctx context.Context, account domain.Account) error {
	raw, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("cache: encode account %s: %w", account.AccountID, err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, accountKey(account.AccountID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set account %s: %w", account.AccountID, err)
	}
	return nil
}

// InvalidateAccount removes the given accounts from the cache.
func (c *AccountCache) InvalidateAccount(ctx context.Context, accountIDs ...string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	keys := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		keys[i] = accountKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: invalidate accounts: %w", err)
	}
	return nil
}
