// Package reconcile compares two sources of truth, the database and the
// object store, and plans repairs.
//
// An Adapter loads one kind of entity from each source, keyed the same way
// on both sides. The engine builds both indices concurrently, computes the
// union of keys and reports, for every key, where it is present. Listing
// storage happens once per reconciliation; there are no per-key lookups.
//
// # Plans
//
// ReconcileWithPlan turns the results into a Plan. With DoPurge set, a key
// present in only one source gets a delete action for that source.
// ApplyPlan executes the actions through the adapter's Mutator, but only
// when the options are confirmed and not a dry run.
//
// # Cache
//
// When Spec.CacheTTL is set, indices are cached per adapter and concurrent
// builds are collapsed into one. Applying a plan invalidates the cache.
//
//	spec := &reconcile.Spec{Adapter: adapter, CacheTTL: time.Minute}
//	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.Options{
//	    DoPurge:   true,
//	    Confirmed: true,
//	})
package reconcile
