package validators

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity(t *testing.T) {
	t.Parallel()

	assert.True(t, Error.AtLeast(Warning))
	assert.True(t, Warning.AtLeast(Warning))
	assert.False(t, Info.AtLeast(Warning))
	assert.Equal(t, "WARNING", Warning.String())
	assert.Equal(t, "Severity(7)", Severity(7).String())

	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", Error, false},
		{"WARNING", Warning, false},
		{"Info", Info, false},
		{"critical", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for _, typ := range Types() {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseType("InstanceTypeValidatr")
	assert.Error(t, err)
	_, err = ParseType("instancetypevalidator")
	assert.Error(t, err)

	assert.Len(t, TypeNames(), len(typeNames))
	assert.Equal(t, "ComputeResourceSizeValidator", TypeNames()[0])
	assert.Equal(t, "Type(0)", Type(0).String())
}

func TestResultJSON(t *testing.T) {
	t.Parallel()

	r := Result{Type: TypeEfa, Severity: Warning, Message: "m", Path: "p"}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"EfaValidator","severity":"WARNING","message":"m","path":"p"}`, string(data))

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)

	assert.Equal(t, "WARNING [EfaValidator] p: m", r.String())
}
