package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectation describes one expected finding by severity and message fragment.
type expectation struct {
	severity Severity
	contains string
}

func assertResults(t *testing.T, typ Type, got []Result, want ...expectation) {
	t.Helper()
	require.Len(t, got, len(want), "results: %v", got)
	for i, w := range want {
		assert.Equal(t, typ, got[i].Type)
		assert.Equal(t, w.severity, got[i].Severity, got[i].Message)
		assert.Contains(t, got[i].Message, w.contains)
		assert.Empty(t, got[i].Path)
	}
}

func errorWith(s string) expectation   { return expectation{Error, s} }
func warningWith(s string) expectation { return expectation{Warning, s} }
func infoWith(s string) expectation    { return expectation{Info, s} }
