package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mgzdb/feature/coordinator"
	"mgzdb/feature/ingest"
	"mgzdb/feature/peer"
	"mgzdb/feature/records"

	"github.com/spf13/cobra"
)

var (
	addTags      []string
	addForce     bool
	addSinglePOV bool

	seriesName  string
	challongeID string
	ladderLimit int
	peerURL     string
	peerAPIKey  string
	peerTimeout time.Duration
)

// addCmd is the parent command for every ingestion source.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add recorded games to the database",
}

var addFileCmd = &cobra.Command{
	Use:   "file <path>...",
	Short: "Add local recorded game files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, c *coordinator.Coordinator) error {
			for _, path := range args {
				task := ingest.NewTask(path, records.SourceCLI, filepath.Base(path))
				task.Tags = addTags
				task.Force = addForce
				if err := c.AddFile(ctx, task); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var addMatchCmd = &cobra.Command{
	Use:   "match <platform> <match id or url>...",
	Short: "Download and add the recordings of platform matches",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, c *coordinator.Coordinator) error {
			for _, match := range args[1:] {
				if err := c.AddMatch(ctx, args[0], match, addTags, addForce, addSinglePOV); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var addLadderCmd = &cobra.Command{
	Use:   "ladder <platform> <ladder id>",
	Short: "Add the most recent matches of a platform ladder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, c *coordinator.Coordinator) error {
			return c.AddLadder(ctx, args[0], args[1], ladderLimit, addTags, addForce, addSinglePOV)
		})
	},
}

var addSeriesCmd = &cobra.Command{
	Use:   "series <zip>",
	Short: "Add every recording of a series zip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := seriesName
		if name == "" {
			name = filepath.Base(args[0])
		}
		return runIngest(func(ctx context.Context, c *coordinator.Coordinator) error {
			return c.AddSeries(ctx, args[0], addTags, name, challongeID, addForce)
		})
	},
}

var addDBCmd = &cobra.Command{
	Use:   "db",
	Short: "Replicate every file of a peer instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := peer.NewClient(peerURL, peerAPIKey, peerTimeout)
		return runIngest(func(ctx context.Context, c *coordinator.Coordinator) error {
			return c.AddFromPeer(ctx, p, addTags, addForce)
		})
	},
}

var addArchiveCmd = &cobra.Command{
	Use:   "archive <root>",
	Short: "Add a platform/shard/match archive tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(func(ctx context.Context, c *coordinator.Coordinator) error {
			return c.AddArchive(ctx, args[0], addSinglePOV)
		})
	},
}

// runIngest starts the pool, runs fn and waits for every submitted task.
// An interrupt cancels the remaining work.
func runIngest(fn func(ctx context.Context, c *coordinator.Coordinator) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	return a.ingest(ctx, fn)
}

func init() {
	addCmd.PersistentFlags().StringSliceVar(&addTags, "tag", nil, "Tag every added match (repeatable)")
	addCmd.PersistentFlags().BoolVar(&addForce, "force", false, "Accept incomplete or restored games")

	for _, c := range []*cobra.Command{addMatchCmd, addLadderCmd, addArchiveCmd} {
		c.Flags().BoolVar(&addSinglePOV, "single-pov", false, "Keep only the first available recording per match")
	}
	addLadderCmd.Flags().IntVar(&ladderLimit, "limit", 100, "Number of recent matches to fetch")
	addSeriesCmd.Flags().StringVar(&seriesName, "series", "", "Series name (defaults to the zip name)")
	addSeriesCmd.Flags().StringVar(&challongeID, "challonge", "", "Challonge match id of the series")
	addDBCmd.Flags().StringVar(&peerURL, "peer-url", "", "Base URL of the peer instance")
	addDBCmd.Flags().StringVar(&peerAPIKey, "peer-api-key", "", "API key of the peer instance")
	addDBCmd.Flags().DurationVar(&peerTimeout, "peer-timeout", 5*time.Minute, "Timeout of each peer request")
	_ = addDBCmd.MarkFlagRequired("peer-url")

	addCmd.AddCommand(addFileCmd, addMatchCmd, addLadderCmd, addSeriesCmd, addDBCmd, addArchiveCmd)
	RootCmd.AddCommand(addCmd)
}
