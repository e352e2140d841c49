// Package resolve turns discovered indirection variables into secret values.
//
// The resolver is strictly sequential and fail-fast: every reference is
// parsed before any network traffic, the store login happens exactly once,
// and the first failing read aborts the run so no partial output can ever be
// emitted.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	verrors "github.com/systmms/vaultenv/internal/errors"
	"github.com/systmms/vaultenv/internal/logging"
	"github.com/systmms/vaultenv/internal/ref"
	"github.com/systmms/vaultenv/internal/scan"
	"github.com/systmms/vaultenv/internal/vault"
)

// Resolver performs the authenticate-then-read phase of the pipeline.
type Resolver struct {
	client vault.Client
	logger *logging.Logger
}

// New creates a resolver bound to a store client.
func New(client vault.Client, logger *logging.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logger,
	}
}

// Secret is one resolved export: the output variable name (prefix already
// stripped) and the literal secret value. Held in memory only, never
// persisted.
type Secret struct {
	Name  string
	Value string
}

// entry pairs a scanned variable with its parsed reference.
type entry struct {
	variable  scan.Variable
	reference ref.Reference
}

// Resolve parses every variable's reference, logs in once and reads each
// secret in turn. The returned slice preserves the variables' enumeration
// order, which keeps repeated runs over an identical environment
// byte-identical without promising any particular order.
func (r *Resolver) Resolve(ctx context.Context, vars []scan.Variable) ([]Secret, error) {
	// Parse everything up front: a malformed reference must fail the run
	// before a single network call is made.
	entries := make([]entry, 0, len(vars))
	for _, v := range vars {
		parsed, err := ref.Parse(v.Name, v.Raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{variable: v, reference: parsed})
	}

	if len(entries) == 0 {
		r.logger.Debug("No indirection variables found, nothing to resolve")
		return nil, nil
	}

	if err := r.client.Login(ctx); err != nil {
		return nil, verrors.AuthError{Err: err}
	}
	if !r.client.Authenticated() {
		return nil, verrors.AuthError{
			Message: "login did not yield an authenticated session",
		}
	}

	secrets := make([]Secret, 0, len(entries))
	for _, e := range entries {
		value, err := r.resolveOne(ctx, e)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, Secret{Name: e.variable.Export, Value: value})
	}
	return secrets, nil
}

// resolveOne reads one secret and extracts the referenced key.
func (r *Resolver) resolveOne(ctx context.Context, e entry) (string, error) {
	secret, err := r.client.ReadKV(ctx, e.reference.Mount, e.reference.Path)
	if err != nil {
		if errors.Is(err, vault.ErrForbidden) {
			return "", verrors.ForbiddenError{
				Variable:  e.variable.Name,
				Reference: e.variable.Raw,
			}
		}
		return "", verrors.ResolutionError{
			Variable:  e.variable.Name,
			Reference: e.variable.Raw,
			Err:       err,
		}
	}
	if secret == nil || secret.Data == nil {
		return "", verrors.ResolutionError{
			Variable:  e.variable.Name,
			Reference: e.variable.Raw,
			Err: fmt.Errorf("no secret at mount %q path %q",
				e.reference.Mount, e.reference.Path),
		}
	}

	raw, exists := secret.Data[e.reference.Key]
	if !exists {
		available := make([]string, 0, len(secret.Data))
		for k := range secret.Data {
			available = append(available, k)
		}
		sort.Strings(available)
		return "", verrors.KeyNotFoundError{
			Variable:  e.variable.Name,
			Reference: e.variable.Raw,
			Key:       e.reference.Key,
			Available: available,
		}
	}

	value, err := stringify(raw)
	if err != nil {
		return "", verrors.ResolutionError{
			Variable:  e.variable.Name,
			Reference: e.variable.Raw,
			Err:       err,
		}
	}

	r.logger.Debug("Resolved %s from %s", e.variable.Export, logging.Secret(e.variable.Raw))
	return value, nil
}

// stringify converts a decoded JSON value to its export form.
func stringify(v interface{}) (string, error) {
	switch value := v.(type) {
	case string:
		return value, nil
	case []byte:
		return string(value), nil
	case int, int32, int64:
		return fmt.Sprintf("%d", value), nil
	case float32, float64:
		return fmt.Sprintf("%g", value), nil
	case bool:
		return strconv.FormatBool(value), nil
	default:
		// Nested objects and arrays export as JSON.
		jsonData, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("failed to convert secret value to string: %w", err)
		}
		return string(jsonData), nil
	}
}
