package reconcile

import (
	"context"
	"fmt"
)

// ReconcileWithPlan reconciles and plans actions without executing them.
func ReconcileWithPlan(ctx context.Context, spec *Spec, opts Options) (*Plan, error) {
	results, err := ReconcileAll(ctx, spec)
	if err != nil {
		return nil, err
	}
	summary, actions := buildPlanFromResults(results, opts)
	return &Plan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions of a plan and returns how many ran.
// Nothing runs unless opts.Confirmed is set and opts.DryRun is not.
func ApplyPlan(ctx context.Context, spec *Spec, plan *Plan, opts Options) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	var deleteDBKeys, deleteStorageKeys []string
	for _, action := range plan.Actions {
		switch action.Type {
		case ActionDeleteDB:
			deleteDBKeys = append(deleteDBKeys, action.Key)
		case ActionDeleteStorage:
			deleteStorageKeys = append(deleteStorageKeys, action.Key)
		}
	}

	if len(deleteDBKeys) > 0 {
		if err := mutator.DeleteDB(ctx, deleteDBKeys); err != nil {
			return executed, fmt.Errorf("failed to batch delete DB keys: %w", err)
		}
		executed += len(deleteDBKeys)
	}
	if len(deleteStorageKeys) > 0 {
		if err := mutator.DeleteStorage(ctx, deleteStorageKeys); err != nil {
			return executed, fmt.Errorf("failed to batch delete storage keys: %w", err)
		}
		executed += len(deleteStorageKeys)
	}

	InvalidateCache(spec)
	return executed, nil
}

// ReconcileAndApply plans and, when confirmed, applies the plan.
func ReconcileAndApply(ctx context.Context, spec *Spec, opts Options) (*Plan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, 0, err
	}
	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}

func buildPlanFromResults(results []Result, opts Options) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalItems = len(results)
	for _, result := range results {
		if result.DBPresent && !result.StoragePresent {
			summary.MissingStorage++
		}
		if result.StoragePresent && !result.DBPresent {
			summary.MissingDB++
		}

		if !opts.DoPurge || (result.DBPresent && result.StoragePresent) {
			continue
		}
		if result.DBPresent {
			actions = append(actions, Action{Type: ActionDeleteDB, Key: result.Key, Reason: "missing in storage"})
		} else {
			actions = append(actions, Action{Type: ActionDeleteStorage, Key: result.Key, Reason: "missing in database"})
		}
		summary.PurgeActions++
	}
	return summary, actions
}
