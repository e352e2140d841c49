package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	verrors "github.com/systmms/vaultenv/internal/errors"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		raw         string
		expected    Reference
		expectError bool
	}{
		{
			name:     "minimal reference",
			raw:      "secret/myapp/password",
			expected: Reference{Mount: "secret", Path: "myapp", Key: "password"},
		},
		{
			name: "path with nested slashes",
			raw:  "secret/fake-app/users/fake-user/password",
			expected: Reference{
				Mount: "secret",
				Path:  "fake-app/users/fake-user",
				Key:   "password",
			},
		},
		{
			name:     "custom mount point",
			raw:      "kv-team/service/db/url",
			expected: Reference{Mount: "kv-team", Path: "service/db", Key: "url"},
		},
		{
			name:        "no separators",
			raw:         "password",
			expectError: true,
		},
		{
			name:        "single separator",
			raw:         "secret/password",
			expectError: true,
		},
		{
			name:        "empty mount point",
			raw:         "/myapp/password",
			expectError: true,
		},
		{
			name:        "empty key",
			raw:         "secret/myapp/",
			expectError: true,
		},
		{
			name:        "empty value",
			raw:         "",
			expectError: true,
		},
		{
			name:        "only separators",
			raw:         "//",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			parsed, err := Parse("V_TEST", tc.raw)
			if tc.expectError {
				require.Error(t, err)
				var malformed verrors.MalformedReferenceError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, "V_TEST", malformed.Variable)
				assert.Equal(t, tc.raw, malformed.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, parsed)
		})
	}
}

func TestParse_ErrorNamesVariableAndGrammar(t *testing.T) {
	t.Parallel()

	_, err := Parse("V_BROKEN", "not-a-reference")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "V_BROKEN")
	assert.Contains(t, err.Error(), "not-a-reference")
	assert.Contains(t, err.Error(), verrors.Grammar)
}

func TestReference_String(t *testing.T) {
	t.Parallel()

	r := Reference{Mount: "secret", Path: "a/b", Key: "c"}
	assert.Equal(t, "secret/a/b/c", r.String())
}
