package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"mgzdb/core/reconcile"
	"mgzdb/feature/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	auditPurge  bool
	auditDryRun bool
	auditYes    bool
)

// auditCmd reconciles File rows against the blob store.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check that every file has its blob and every blob its file",
	Long: `Reconcile File rows against the blob store.

Reports files whose blob is missing and orphan blobs.
Optionally purge both: files without a blob are deleted (with their match
when it was the last file) and orphan blobs are removed.

Examples:
  # Report only
  audit

  # Purge with interactive confirmation
  audit --purge

  # Purge with auto-confirm (non-interactive)
  audit --purge --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(runAudit)
	},
}

func runAudit(ctx context.Context, a *app) error {
	service := audit.NewService(a.db, a.store, a.log, 0)
	opts := reconcile.Options{DoPurge: auditPurge, DryRun: auditDryRun}

	a.log.Info("Planning audit...")
	plan, _, err := service.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to plan audit: %w", err)
	}
	printAuditReport(a.log, plan)

	if !auditPurge {
		a.log.Info("No actions requested. Use --purge to delete inconsistent items.")
		return nil
	}
	if auditDryRun {
		a.log.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		a.log.Info("No actions required.")
		return nil
	}
	if !confirmDestructiveAction(auditYes) {
		a.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	opts.Confirmed = true
	executed, err := service.Apply(ctx, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	a.log.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printAuditReport logs the summary and a sample of the planned actions.
func printAuditReport(l *zap.Logger, plan *reconcile.Plan) {
	l.Info("Audit report",
		zap.Int("total_items", plan.Summary.TotalItems),
		zap.Int("missing_storage", plan.Summary.MissingStorage),
		zap.Int("missing_db", plan.Summary.MissingDB),
	)

	maxShow := min(5, len(plan.Actions))
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Planned action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts for confirmation unless yes is set.
func confirmDestructiveAction(yes bool) bool {
	if yes {
		fmt.Println("Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

func init() {
	auditCmd.Flags().BoolVar(&auditPurge, "purge", false, "Delete files without a blob and orphan blobs")
	auditCmd.Flags().BoolVar(&auditDryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	auditCmd.Flags().BoolVar(&auditYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(auditCmd)
}
