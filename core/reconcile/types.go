package reconcile

import "time"

// Result is the reconciliation output for a single key.
type Result struct {
	// Key identifies the entity in both sources.
	Key string `json:"key"`

	// DBPresent indicates whether the entity exists in the database.
	DBPresent bool `json:"db_present"`

	// StoragePresent indicates whether the entity exists in storage.
	StoragePresent bool `json:"storage_present"`

	// Metadata contains adapter-specific data about the database row.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Spec bundles the adapter with cache settings.
type Spec struct {
	// Adapter provides the entity-specific loading and mutations.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey identifies the cache entry of a spec.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name()
}

// DBItem is an adapter-defined database entity.
type DBItem any

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionDeleteDB deletes an entity from the database.
	ActionDeleteDB ActionType = "delete_db"
	// ActionDeleteStorage deletes an entity from storage.
	ActionDeleteStorage ActionType = "delete_storage"
)

// Action represents a planned mutation operation.
type Action struct {
	Type   ActionType `json:"type"`
	Key    string     `json:"key"`
	Reason string     `json:"reason"`
}

// Plan contains reconciliation results and planned actions.
type Plan struct {
	Results []Result    `json:"results"`
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalItems is the number of unique keys across both sources.
	TotalItems int `json:"total_items"`

	// MissingStorage counts database entities without a storage object.
	MissingStorage int `json:"missing_storage"`

	// MissingDB counts storage objects without a database entity.
	MissingDB int `json:"missing_db"`

	// PurgeActions counts planned delete actions.
	PurgeActions int `json:"purge_actions"`
}

// Options controls purge behavior.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge plans deletion of entities missing in either source.
	DoPurge bool

	// Confirmed indicates the user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
