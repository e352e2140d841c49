// Package export serializes resolved secrets as shell assignment statements.
package export

import (
	"fmt"
	"io"

	"github.com/systmms/vaultenv/internal/resolve"
)

// Write emits one line per secret in the exact form
//
//	export <name>="<value>"
//
// suitable for eval/source by the calling shell. The value is wrapped in
// double quotes but NOT escaped: a secret containing a double quote or other
// shell metacharacters will break the sourcing shell. Known limitation,
// inherited from the format's consumers.
func Write(w io.Writer, secrets []resolve.Secret) error {
	for _, s := range secrets {
		if _, err := fmt.Fprintf(w, "export %s=\"%s\"\n", s.Name, s.Value); err != nil {
			return fmt.Errorf("failed to write export line: %w", err)
		}
	}
	return nil
}
