// Package scan discovers indirection variables in the process environment.
//
// An indirection variable is an environment variable whose value is not the
// secret itself but a reference to one, marked by a configurable name prefix
// (default V_). V_DB_PASSWORD=secret/myapp/db/password asks for the export
// line for DB_PASSWORD.
package scan

import "strings"

// DefaultPrefix marks indirection variables unless overridden via
// VAULT_VAR_PREFIX or --prefix.
const DefaultPrefix = "V_"

// Variable is a single discovered indirection variable.
type Variable struct {
	// Name is the full environment variable name, prefix included.
	Name string

	// Export is Name with the prefix stripped: the name the resolved
	// secret is exported under.
	Export string

	// Raw is the unparsed reference value.
	Raw string
}

// Scan filters environ (in "KEY=value" form, as returned by os.Environ) down
// to the variables carrying the prefix. Enumeration order is preserved as
// given; the caller must not rely on any particular order beyond that. An
// empty result simply means no secrets were requested.
func Scan(environ []string, prefix string) []Variable {
	var vars []Variable
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		export := strings.TrimPrefix(name, prefix)
		if export == "" {
			// A variable named exactly like the prefix exports nothing.
			continue
		}
		vars = append(vars, Variable{
			Name:   name,
			Export: export,
			Raw:    value,
		})
	}
	return vars
}
