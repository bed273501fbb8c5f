package reconcile

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter is a simple test adapter.
type mockAdapter struct {
	name        string
	dbIndex     map[string]DBItem
	storageSet  map[string]struct{}
	dbErr       error
	storageErr  error
	loads       atomic.Int32
	deletedDB   []string
	deletedObjs []string
}

func (m *mockAdapter) Name() string {
	if m.name != "" {
		return m.name
	}
	return "mock"
}

func (m *mockAdapter) LoadDBIndex(context.Context) (map[string]DBItem, error) {
	m.loads.Add(1)
	return m.dbIndex, m.dbErr
}

func (m *mockAdapter) LoadStorageSet(context.Context) (map[string]struct{}, error) {
	return m.storageSet, m.storageErr
}

func (m *mockAdapter) GetMetadata(item DBItem) map[string]string {
	return map[string]string{"item": fmt.Sprint(item)}
}

func (m *mockAdapter) DeleteDB(_ context.Context, keys []string) error {
	m.deletedDB = append(m.deletedDB, keys...)
	return nil
}

func (m *mockAdapter) DeleteStorage(_ context.Context, keys []string) error {
	m.deletedObjs = append(m.deletedObjs, keys...)
	return nil
}

func TestBuildIndex_ErrorHandling(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		storageErr error
		expectErr  string
	}{
		{name: "DB load error", dbErr: fmt.Errorf("db error"), expectErr: "db error"},
		{name: "Storage load error", storageErr: fmt.Errorf("storage error"), expectErr: "storage error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &mockAdapter{
				dbIndex:    map[string]DBItem{},
				storageSet: map[string]struct{}{},
				dbErr:      tt.dbErr,
				storageErr: tt.storageErr,
			}
			_, err := BuildIndex(context.Background(), &Spec{Adapter: adapter})
			assert.ErrorContains(t, err, tt.expectErr)
		})
	}
}

func TestReconcileAll(t *testing.T) {
	adapter := &mockAdapter{
		dbIndex:    map[string]DBItem{"b": "row-b", "a": "row-a"},
		storageSet: map[string]struct{}{"a": {}, "c": {}},
	}

	results, err := ReconcileAll(context.Background(), &Spec{Adapter: adapter})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, Result{Key: "a", DBPresent: true, StoragePresent: true, Metadata: map[string]string{"item": "row-a"}}, results[0])
	assert.Equal(t, "b", results[1].Key)
	assert.True(t, results[1].DBPresent)
	assert.False(t, results[1].StoragePresent)
	assert.Equal(t, "c", results[2].Key)
	assert.False(t, results[2].DBPresent)
	assert.Nil(t, results[2].Metadata)
}

func TestReconcileOne(t *testing.T) {
	adapter := &mockAdapter{
		dbIndex:    map[string]DBItem{"a": "row-a"},
		storageSet: map[string]struct{}{},
	}

	result, err := ReconcileOne(context.Background(), &Spec{Adapter: adapter}, "a")
	require.NoError(t, err)
	assert.True(t, result.DBPresent)
	assert.False(t, result.StoragePresent)

	result, err = ReconcileOne(context.Background(), &Spec{Adapter: adapter}, "zzz")
	require.NoError(t, err)
	assert.False(t, result.DBPresent)
}

func TestGetOrBuildIndex_Caches(t *testing.T) {
	adapter := &mockAdapter{
		name:       "cached",
		dbIndex:    map[string]DBItem{"a": "row-a"},
		storageSet: map[string]struct{}{"a": {}},
	}
	spec := &Spec{Adapter: adapter, CacheTTL: time.Minute}
	t.Cleanup(func() { InvalidateCache(spec) })

	for i := 0; i < 3; i++ {
		_, err := ReconcileAll(context.Background(), spec)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, adapter.loads.Load())

	InvalidateCache(spec)
	_, err := ReconcileAll(context.Background(), spec)
	require.NoError(t, err)
	assert.EqualValues(t, 2, adapter.loads.Load())
}

func TestIndex_IsExpired(t *testing.T) {
	assert.True(t, (&Index{}).IsExpired())
	assert.False(t, (&Index{Built: time.Now(), TTL: time.Minute}).IsExpired())
	assert.True(t, (&Index{Built: time.Now().Add(-2 * time.Minute), TTL: time.Minute}).IsExpired())
}
