package handlers

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/hpcgate/internal/config"
	"github.com/imamik/hpcgate/internal/metadata"
	hpctest "github.com/imamik/hpcgate/internal/testing"
)

// useCollaborator replaces the metadata collaborator factory for one test
// and records the settings it was created with.
func useCollaborator(t *testing.T, collab metadata.Collaborator) *config.Settings {
	t.Helper()
	t.Setenv("HPCGATE_RETRY_INITIAL_DELAY", "1ms")
	t.Setenv("HPCGATE_RETRY_MAX_DELAY", "2ms")

	seen := &config.Settings{}
	orig := newCollaborator
	newCollaborator = func(_ context.Context, settings *config.Settings) (metadata.Collaborator, error) {
		*seen = *settings
		return collab, nil
	}
	t.Cleanup(func() { newCollaborator = orig })
	return seen
}

func useStdin(t *testing.T, r io.Reader) {
	t.Helper()
	orig := stdin
	stdin = r
	t.Cleanup(func() { stdin = orig })
}

func writeDocument(t *testing.T, doc *config.Document) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	return writeFile(t, data)
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultDocumentFilename)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func minimalDocument(t *testing.T) string {
	t.Helper()
	return writeDocument(t, hpctest.NewDocumentBuilder().Build())
}
