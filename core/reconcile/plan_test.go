package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanAdapter() *mockAdapter {
	return &mockAdapter{
		dbIndex: map[string]DBItem{
			"both":    "row",
			"db-only": "row",
		},
		storageSet: map[string]struct{}{
			"both":         {},
			"storage-only": {},
		},
	}
}

func TestReconcileWithPlan_ReportOnly(t *testing.T) {
	plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: newPlanAdapter()}, Options{})
	require.NoError(t, err)

	assert.Len(t, plan.Results, 3)
	assert.Equal(t, 3, plan.Summary.TotalItems)
	assert.Equal(t, 1, plan.Summary.MissingStorage)
	assert.Equal(t, 1, plan.Summary.MissingDB)
	assert.Empty(t, plan.Actions)
}

func TestReconcileWithPlan_PurgeActions(t *testing.T) {
	plan, err := ReconcileWithPlan(context.Background(), &Spec{Adapter: newPlanAdapter()}, Options{DoPurge: true})
	require.NoError(t, err)

	assert.Equal(t, 2, plan.Summary.PurgeActions)
	assert.ElementsMatch(t, []Action{
		{Type: ActionDeleteDB, Key: "db-only", Reason: "missing in storage"},
		{Type: ActionDeleteStorage, Key: "storage-only", Reason: "missing in database"},
	}, plan.Actions)
}

func TestApplyPlan(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		executed int
	}{
		{"unconfirmed", Options{DoPurge: true}, 0},
		{"dry run", Options{DoPurge: true, Confirmed: true, DryRun: true}, 0},
		{"confirmed", Options{DoPurge: true, Confirmed: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newPlanAdapter()
			plan, executed, err := ReconcileAndApply(context.Background(), &Spec{Adapter: adapter}, tt.opts)
			require.NoError(t, err)
			assert.Len(t, plan.Actions, 2)
			assert.Equal(t, tt.executed, executed)
			if tt.executed > 0 {
				assert.Equal(t, []string{"db-only"}, adapter.deletedDB)
				assert.Equal(t, []string{"storage-only"}, adapter.deletedObjs)
			} else {
				assert.Empty(t, adapter.deletedDB)
				assert.Empty(t, adapter.deletedObjs)
			}
		})
	}
}

func TestApplyPlan_RequiresMutator(t *testing.T) {
	spec := &Spec{Adapter: struct{ Adapter }{newPlanAdapter()}}
	plan, err := ReconcileWithPlan(context.Background(), spec, Options{DoPurge: true})
	require.NoError(t, err)

	_, err = ApplyPlan(context.Background(), spec, plan, Options{DoPurge: true, Confirmed: true})
	assert.ErrorContains(t, err, "does not implement Mutator")
}
