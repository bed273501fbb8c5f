package audit

import (
	"context"
	"time"

	"mgzdb/core/reconcile"
	"mgzdb/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs audits of the database against the blob store.
type Service struct {
	spec   *reconcile.Spec
	logger *zap.Logger
}

// NewService creates an audit service. A positive cacheTTL lets repeated
// reports reuse the loaded indices.
func NewService(db *gorm.DB, store *storage.BlobStore, logger *zap.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		spec: &reconcile.Spec{
			Adapter:  NewAdapter(db, store, logger),
			CacheTTL: cacheTTL,
		},
		logger: logger,
	}
}

// Run plans the audit and applies it when opts allow.
func (s *Service) Run(ctx context.Context, opts reconcile.Options) (*reconcile.Plan, int, error) {
	plan, executed, err := reconcile.ReconcileAndApply(ctx, s.spec, opts)
	if err != nil {
		return nil, executed, err
	}
	s.logger.Info("Audit complete",
		zap.Int("total", plan.Summary.TotalItems),
		zap.Int("missing_storage", plan.Summary.MissingStorage),
		zap.Int("missing_db", plan.Summary.MissingDB),
		zap.Int("purge_actions", plan.Summary.PurgeActions),
		zap.Int("executed", executed))
	return plan, executed, nil
}

// Check reports on one content hash.
func (s *Service) Check(ctx context.Context, hash string) (*reconcile.Result, error) {
	return reconcile.ReconcileOne(ctx, s.spec, hash)
}

// Apply executes a plan previously returned by Run.
func (s *Service) Apply(ctx context.Context, plan *reconcile.Plan, opts reconcile.Options) (int, error) {
	return reconcile.ApplyPlan(ctx, s.spec, plan, opts)
}
