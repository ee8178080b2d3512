// Package session holds the process-wide shopper identity.
//
// The identity is written once at login (Init) and cleared once at logout
// (Teardown). Cart and browsing code only ever reads it through Reader.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Persisted keys.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyBalance  = "balance"
)

var persistedKeys = []string{KeyToken, KeyUsername, KeyBalance}

// Identity is the logged-in shopper as returned by the login call.
type Identity struct {
	Token    string
	Username string
	Balance  decimal.Decimal
}

// LoggedIn reports whether the identity carries a bearer token.
func (i Identity) LoggedIn() bool {
	return i.Token != ""
}

// Store persists identity fields as plain key/value pairs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// SetAll writes all pairs atomically.
	SetAll(ctx context.Context, values map[string]string) error
	Clear(ctx context.Context, keys ...string) error
	Close() error
}

// Reader exposes the read-only surface used by cart and catalog code.
type Reader interface {
	Current(ctx context.Context) (Identity, error)
}

// Context is the process-wide session with an explicit login/logout lifecycle.
type Context struct {
	store Store

	mu     sync.RWMutex
	cached *Identity
}

// NewContext wraps the provided store.
func NewContext(store Store) (*Context, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Context{store: store}, nil
}

// Init persists a fresh identity after a successful login.
func (c *Context) Init(ctx context.Context, id Identity) error {
	if strings.TrimSpace(id.Token) == "" {
		return fmt.Errorf("session token is required")
	}
	if strings.TrimSpace(id.Username) == "" {
		return fmt.Errorf("session username is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SetAll(ctx, map[string]string{
		KeyToken:    id.Token,
		KeyUsername: id.Username,
		KeyBalance:  id.Balance.String(),
	}); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	c.cached = &id
	return nil
}

// Teardown clears every persisted identity field.
func (c *Context) Teardown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Clear(ctx, persistedKeys...); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	c.cached = &Identity{}
	return nil
}

// Current returns the persisted identity; an empty Identity means logged out.
func (c *Context) Current(ctx context.Context) (Identity, error) {
	c.mu.RLock()
	if c.cached != nil {
		id := *c.cached
		c.mu.RUnlock()
		return id, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil {
		return *c.cached, nil
	}
	id, err := c.load(ctx)
	if err != nil {
		return Identity{}, err
	}
	c.cached = &id
	return id, nil
}

// Close releases the backing store.
func (c *Context) Close() error {
	return c.store.Close()
}

func (c *Context) load(ctx context.Context) (Identity, error) {
	values := make(map[string]string, len(persistedKeys))
	for _, key := range persistedKeys {
		value, found, err := c.store.Get(ctx, key)
		if err != nil {
			return Identity{}, fmt.Errorf("reading session %s: %w", key, err)
		}
		if found {
			values[key] = value
		}
	}

	id := Identity{
		Token:    values[KeyToken],
		Username: values[KeyUsername],
	}
	if raw := values[KeyBalance]; raw != "" {
		balance, err := decimal.NewFromString(raw)
		if err != nil {
			return Identity{}, fmt.Errorf("parsing session balance %q: %w", raw, err)
		}
		id.Balance = balance
	}
	return id, nil
}
