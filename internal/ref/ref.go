// Package ref parses secret references of the form mount_point/path/key.
package ref

import (
	"regexp"

	verrors "github.com/systmms/vaultenv/internal/errors"
)

// pattern splits a reference into mount point, path and key. The middle
// match is greedy, so a path may itself contain slashes; the mount point and
// key may not. secret/fake-app/users/fake-user/password parses as mount
// "secret", path "fake-app/users/fake-user", key "password".
var pattern = regexp.MustCompile(`^([^/]+)/(.+)/([^/]+)$`)

// Reference addresses a single value in the store: the KV mount, the secret
// path below it and the key inside the secret's data.
type Reference struct {
	Mount string
	Path  string
	Key   string
}

// Parse decomposes the raw value of the named indirection variable. Values
// with fewer than two separators, or with an empty mount point or key, fail
// with a MalformedReferenceError naming the variable.
func Parse(variable, raw string) (Reference, error) {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return Reference{}, verrors.MalformedReferenceError{
			Variable: variable,
			Value:    raw,
		}
	}
	return Reference{Mount: m[1], Path: m[2], Key: m[3]}, nil
}

// String reassembles the reference in its original grammar, for messages.
func (r Reference) String() string {
	return r.Mount + "/" + r.Path + "/" + r.Key
}
