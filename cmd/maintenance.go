package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"mgzdb/feature/coordinator"
	"mgzdb/feature/records"

	"github.com/spf13/cobra"
)

var (
	removeFile   uint
	removeMatch  uint
	removeSeries string
	getOutput    string
	resetYes     bool
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a file, a match or a series",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			result, err := a.coordinator.Remove(ctx, coordinator.RemoveRequest{
				FileID:   removeFile,
				MatchID:  removeMatch,
				SeriesID: removeSeries,
			})
			if errors.Is(err, records.ErrNotFound) {
				fmt.Println("not found")
				return nil
			}
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <match id> <tag>...",
	Short: "Tag a match",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := parseUint(args[0])
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app) error {
			return a.coordinator.Tag(ctx, matchID, args[1:])
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <file id>",
	Short: "Write the original bytes of a stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileID, err := parseUint(args[0])
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app) error {
			name, data, err := a.coordinator.Get(ctx, fileID)
			if errors.Is(err, records.ErrNotFound) {
				fmt.Println("not found")
				return nil
			}
			if err != nil {
				return err
			}
			out := getOutput
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Println(out)
			return nil
		})
	},
}

var queryCmd = &cobra.Command{
	Use:       "query <match|file|series|summary> [id]",
	Short:     "Print a JSON report",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"match", "file", "series", "summary"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) > 1 {
			id = args[1]
		}
		return withApp(func(ctx context.Context, a *app) error {
			report, err := a.coordinator.Query(ctx, args[0], id)
			if errors.Is(err, records.ErrNotFound) {
				fmt.Println("not found")
				return nil
			}
			if err != nil {
				return err
			}
			return printJSON(report)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate every table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmDestructiveAction(resetYes) {
			fmt.Println("Operation cancelled. No changes were made.")
			return nil
		}
		return withApp(func(ctx context.Context, a *app) error {
			return a.coordinator.Reset(ctx)
		})
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the schema, reference rows and bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.coordinator.Bootstrap(ctx)
		})
	},
}

// withApp runs fn with a connected app that is closed afterwards.
func withApp(fn func(ctx context.Context, a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(context.Background(), a)
}

func parseUint(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	removeCmd.Flags().UintVar(&removeFile, "file", 0, "File id to remove")
	removeCmd.Flags().UintVar(&removeMatch, "match", 0, "Match id to remove")
	removeCmd.Flags().StringVar(&removeSeries, "series", "", "Series id to remove")
	removeCmd.MarkFlagsMutuallyExclusive("file", "match", "series")
	removeCmd.MarkFlagsOneRequired("file", "match", "series")

	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "Output path (defaults to the original filename)")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Auto-confirm (non-interactive)")

	RootCmd.AddCommand(removeCmd, tagCmd, getCmd, queryCmd, resetCmd, bootstrapCmd)
}
