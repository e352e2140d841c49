// Package vault talks to a HashiCorp Vault server over its HTTP API.
//
// The export pipeline needs exactly three things from the store: a client
// bound to an address and optional namespace, a single AppRole login that
// reports whether it produced an authenticated session, and versioned KV v2
// reads that distinguish "forbidden" from every other failure. The Client
// interface captures those three capabilities so tests can substitute a
// double for the real server.
package vault

import (
	"context"
	"errors"
	"time"

	"github.com/systmms/vaultenv/internal/secure"
)

const (
	// DefaultTimeout bounds every round-trip to the server.
	DefaultTimeout = 30 * time.Second

	// loginPath is the AppRole login endpoint, relative to /v1/.
	loginPath = "auth/approle/login"
)

// ErrForbidden is returned by ReadKV when the server rejects the read with
// 403. Callers map it to an access error distinct from authentication
// failure: the session is valid, the role's policy just does not cover the
// path.
var ErrForbidden = errors.New("permission denied")

// Client is the store handle used by the resolver.
type Client interface {
	// Login performs the role/secret-id exchange. Called exactly once per
	// invocation, before any read.
	Login(ctx context.Context) error

	// Authenticated reports whether a login produced a session token.
	Authenticated() bool

	// ReadKV reads the latest version of the KV v2 secret at mount/path.
	// It returns (nil, nil) when no secret exists at the path and
	// ErrForbidden when the server denies the read.
	ReadKV(ctx context.Context, mount, path string) (*Secret, error)
}

// Secret is the data portion of a KV v2 read.
type Secret struct {
	Data     map[string]interface{} `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Config binds a client to one server.
type Config struct {
	Address   string
	RoleID    string
	SecretID  *secure.Buffer
	Namespace string

	// TLS settings, sourced from the usual VAULT_* environment variables.
	CACert  string
	TLSSkip bool
}
