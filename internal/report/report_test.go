package report_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hpcgate/internal/report"
	"github.com/imamik/hpcgate/internal/validators"
)

func finding(t validators.Type, sev validators.Severity) validators.Result {
	return validators.Result{Type: t, Severity: sev, Message: t.String() + " " + sev.String()}
}

var mixed = []validators.Result{
	finding(validators.TypeNumberOfStorage, validators.Error),
	finding(validators.TypeEfaPlacementGroup, validators.Warning),
	finding(validators.TypeInstancesNetworking, validators.Info),
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		results     []validators.Result
		suppression report.Suppression
		failLevel   validators.Severity
		reported    int
		suppressed  map[string]int
		rawBlocking bool
		mayProceed  bool
		outcome     report.Outcome
	}{
		{
			name:       "no findings",
			failLevel:  validators.Error,
			suppressed: map[string]int{},
			mayProceed: true,
			outcome:    report.OutcomeClean,
		},
		{
			name:        "error blocks",
			results:     mixed,
			failLevel:   validators.Error,
			reported:    3,
			suppressed:  map[string]int{},
			rawBlocking: true,
			outcome:     report.OutcomeBlocked,
		},
		{
			name:        "suppressed error passes",
			results:     mixed,
			suppression: report.SuppressTypes(validators.TypeNumberOfStorage),
			failLevel:   validators.Error,
			reported:    2,
			suppressed:  map[string]int{"NumberOfStorageValidator": 1},
			rawBlocking: true,
			mayProceed:  true,
			outcome:     report.OutcomePassedWithSuppressed,
		},
		{
			name:        "warning threshold still blocks",
			results:     mixed,
			suppression: report.SuppressTypes(validators.TypeNumberOfStorage),
			failLevel:   validators.Warning,
			reported:    2,
			suppressed:  map[string]int{"NumberOfStorageValidator": 1},
			rawBlocking: true,
			outcome:     report.OutcomeBlocked,
		},
		{
			name:       "below threshold",
			results:    mixed[1:],
			failLevel:  validators.Error,
			reported:   2,
			suppressed: map[string]int{},
			mayProceed: true,
			outcome:    report.OutcomePassedWithFindings,
		},
		{
			name:        "below threshold and all suppressed",
			results:     mixed[1:],
			suppression: report.SuppressAll(),
			failLevel:   validators.Error,
			suppressed: map[string]int{
				"EfaPlacementGroupValidator":   1,
				"InstancesNetworkingValidator": 1,
			},
			mayProceed: true,
			outcome:    report.OutcomePassedAllSuppressed,
		},
		{
			name:        "suppress all",
			results:     mixed,
			suppression: report.SuppressAll(),
			failLevel:   validators.Info,
			suppressed: map[string]int{
				"NumberOfStorageValidator":     1,
				"EfaPlacementGroupValidator":   1,
				"InstancesNetworkingValidator": 1,
			},
			rawBlocking: true,
			mayProceed:  true,
			outcome:     report.OutcomePassedWithSuppressed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := report.Aggregate(tt.results, tt.suppression, tt.failLevel)
			assert.Len(t, r.Findings, tt.reported)
			assert.Equal(t, tt.suppressed, r.Suppressed)
			assert.Equal(t, tt.rawBlocking, r.RawBlocking)
			assert.Equal(t, tt.mayProceed, r.MayProceed)
			assert.Equal(t, tt.outcome, r.Outcome)
			assert.Equal(t, len(tt.results), r.RawTotal())
			assert.Equal(t, tt.failLevel, r.FailLevel)
		})
	}
}

func TestAggregate_SuppressAllKeepsRawCounts(t *testing.T) {
	t.Parallel()

	plain := report.Aggregate(mixed, report.Suppression{}, validators.Error)
	all := report.Aggregate(mixed, report.SuppressAll(), validators.Error)

	assert.Equal(t, plain.RawCounts, all.RawCounts)
	assert.Equal(t, map[string]int{"ERROR": 1, "WARNING": 1, "INFO": 1}, all.RawCounts)
	assert.Empty(t, all.Findings)
	assert.Equal(t, 3, all.SuppressedTotal())
}

func TestAggregate_PreservesOrder(t *testing.T) {
	t.Parallel()

	r := report.Aggregate(mixed, report.SuppressTypes(validators.TypeEfaPlacementGroup), validators.Error)
	require.Len(t, r.Findings, 2)
	assert.Equal(t, validators.TypeNumberOfStorage, r.Findings[0].Type)
	assert.Equal(t, validators.TypeInstancesNetworking, r.Findings[1].Type)
	assert.Equal(t, 1, r.Count(validators.Error))
	assert.Equal(t, 0, r.Count(validators.Warning))
}

func TestAggregate_RunID(t *testing.T) {
	t.Parallel()

	a := report.Aggregate(nil, report.Suppression{}, validators.Error)
	b := report.Aggregate(nil, report.Suppression{}, validators.Error)

	_, err := uuid.Parse(a.RunID)
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
}
