package reconcile

import (
	"context"
	"sort"
)

// ReconcileAll compares both sources and returns one result per key,
// sorted by key.
func ReconcileAll(ctx context.Context, spec *Spec) ([]Result, error) {
	idx, err := index(ctx, spec)
	if err != nil {
		return nil, err
	}
	return resultsFromIndex(idx, spec.Adapter), nil
}

// ReconcileOne reports the presence of a single key.
func ReconcileOne(ctx context.Context, spec *Spec, key string) (*Result, error) {
	idx, err := index(ctx, spec)
	if err != nil {
		return nil, err
	}
	result := buildResult(key, idx, spec.Adapter)
	return &result, nil
}

func index(ctx context.Context, spec *Spec) (*Index, error) {
	if spec.CacheTTL > 0 {
		return GetOrBuildIndex(ctx, spec)
	}
	return BuildIndex(ctx, spec)
}

func resultsFromIndex(idx *Index, adapter Adapter) []Result {
	union := make(map[string]struct{}, len(idx.DBIndex)+len(idx.StorageSet))
	for key := range idx.DBIndex {
		union[key] = struct{}{}
	}
	for key := range idx.StorageSet {
		union[key] = struct{}{}
	}

	results := make([]Result, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, idx, adapter))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}

func buildResult(key string, idx *Index, adapter Adapter) Result {
	item, dbPresent := idx.DBIndex[key]
	_, storagePresent := idx.StorageSet[key]

	result := Result{
		Key:            key,
		DBPresent:      dbPresent,
		StoragePresent: storagePresent,
	}
	if dbPresent {
		result.Metadata = adapter.GetMetadata(item)
	}
	return result
}
