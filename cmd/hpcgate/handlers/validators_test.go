package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hpcgate/internal/validation"
)

func TestListValidators(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, ListValidators(&out, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	types := validation.NewRegistry().Types()
	require.Greater(t, len(lines), len(types))
	assert.Equal(t, types[0].String(), lines[0])
	assert.Contains(t, out.String(), `Use "ALL" to suppress every validator.`)
}

func TestListValidators_JSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, ListValidators(&out, true))

	var names []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &names))
	assert.Len(t, names, len(validation.NewRegistry().Types()))
	assert.Contains(t, names, "CapacityReservationValidator")
}
