package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Flags(t *testing.T) {
	cmd := Validate()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"config", "c", ""},
		{"suppress", "", "[]"},
		{"fail-level", "", "error"},
		{"output", "o", "text"},
		{"architecture-policy", "", "head-node"},
		{"region", "", ""},
		{"timeout", "", "0s"},
		{"no-prefetch", "", "false"},
		{"metrics-file", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestValidate_RejectsArgs(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"validate", "extra"})

	assert.Error(t, root.Execute())
}

func TestValidate_InvalidFailLevel(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"validate", "--fail-level", "fatal"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --fail-level")
}

func TestDefaults_Flags(t *testing.T) {
	cmd := Defaults()

	require.NotNil(t, cmd.Flags().Lookup("config"))
	implied := cmd.Flags().Lookup("include-implied")
	require.NotNil(t, implied)
	assert.Equal(t, "false", implied.DefValue)
}
