package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"mgzdb/core/platform"
	"mgzdb/feature/ingest"
	"mgzdb/feature/peer"
	"mgzdb/feature/records"

	"go.uber.org/zap"
)

const metadataFile = "metadata.json"

// AddMatch downloads the recordings of a platform match and submits each
// one. A match the platform cannot serve is logged and skipped.
func (c *Coordinator) AddMatch(ctx context.Context, platformID, matchIDOrURL string, tags []string, force, singlePOV bool) error {
	p, err := c.platform(platformID)
	if err != nil {
		return err
	}
	matchID := platform.ParseMatchID(matchIDOrURL)
	log := c.log.With(zap.String("platform", platformID), zap.String("platform_match_id", matchID))

	match, err := p.GetMatch(ctx, matchID)
	if err != nil {
		log.Error("Failed to get match", zap.Error(err))
		return nil
	}

	players := match.Players
	if singlePOV {
		players = nil
		for _, player := range match.Players {
			if player.URL != "" {
				players = []platform.Player{player}
				break
			}
		}
	}
	if len(players) == 0 {
		log.Warn("Match has no recordings")
		return nil
	}

	dir, err := c.scratch("match-")
	if err != nil {
		return err
	}
	userData := userDataOf(match.Players)
	for _, player := range players {
		if player.URL == "" {
			continue
		}
		path, err := p.DownloadRec(ctx, player.URL, dir)
		if err != nil {
			log.Error("Failed to download recording", zap.String("url", player.URL), zap.Error(err))
			continue
		}

		task := ingest.NewTask(path, records.SourcePlatform, matchIDOrURL)
		task.Tags = tags
		task.Force = force
		task.Played = match.Timestamp
		task.UserData = userData
		task.Platform = &ingest.PlatformInfo{
			PlatformID: platformID,
			MatchID:    matchID,
			Ladder:     match.Ladder,
			Rated:      match.Rated,
		}
		if err := c.AddFile(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// AddLadder submits the most recent matches of a platform ladder.
func (c *Coordinator) AddLadder(ctx context.Context, platformID, ladderID string, limit int, tags []string, force, singlePOV bool) error {
	p, err := c.platform(platformID)
	if err != nil {
		return err
	}
	lister, ok := p.(platform.LadderLister)
	if !ok {
		return fmt.Errorf("%w: %s cannot list ladders", platform.ErrUnsupported, platformID)
	}

	matches, err := lister.LadderMatches(ctx, ladderID, limit)
	if err != nil {
		return fmt.Errorf("failed to list ladder %s: %w", ladderID, err)
	}
	c.log.Info("Ladder listed", zap.String("platform", platformID), zap.String("ladder", ladderID), zap.Int("matches", len(matches)))

	for _, m := range matches {
		if err := c.AddMatch(ctx, platformID, m.ID, tags, force, singlePOV); err != nil {
			return err
		}
	}
	return nil
}

// AddSeries extracts a zip of one series and submits every member in name
// order. Members that cannot be extracted are logged and skipped.
func (c *Coordinator) AddSeries(ctx context.Context, zipPath string, tags []string, series, challongeID string, force bool) error {
	dir, err := c.scratch("series-")
	if err != nil {
		return err
	}
	members, err := extractZip(zipPath, dir, c.log)
	if err != nil {
		return err
	}

	reference := filepath.Base(zipPath)
	c.log.Info("Opened archive", zap.String("archive", reference), zap.Int("members", len(members)))
	for _, member := range members {
		task := ingest.NewTask(filepath.Join(dir, filepath.FromSlash(member)), records.SourceZip, reference)
		task.OriginalFilename = path.Base(member)
		task.Tags = tags
		task.Force = force
		if series != "" {
			task.Series = &ingest.SeriesInfo{Name: series, ChallongeID: challongeID}
		}
		if err := c.AddFile(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// AddFromPeer replicates every file of another instance. A file the peer
// cannot serve or that cannot be staged locally is logged and skipped.
func (c *Coordinator) AddFromPeer(ctx context.Context, p peer.Peer, tags []string, force bool) error {
	matches, err := p.ListMatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to list peer matches: %w", err)
	}
	dir, err := c.scratch("peer-")
	if err != nil {
		return err
	}

	for _, m := range matches {
		for _, f := range m.Files {
			log := c.log.With(zap.Uint("peer_file_id", f.ID))
			name, data, err := p.GetFileBytes(ctx, f.ID)
			if err != nil {
				log.Error("Failed to fetch peer file", zap.Error(err))
				continue
			}
			if name = filepath.Base(filepath.Clean("/" + name)); name == "/" {
				name = f.Hash
			}

			target := filepath.Join(dir, strconv.FormatUint(uint64(f.ID), 10), name)
			if err := stage(target, data); err != nil {
				log.Error("Failed to stage peer file", zap.Error(err))
				continue
			}

			task := ingest.NewTask(target, records.SourceDB, strconv.FormatUint(uint64(f.ID), 10))
			task.OriginalFilename = name
			task.Tags = tags
			task.Force = force
			task.Played = m.Played
			if m.Series != nil {
				task.Series = &ingest.SeriesInfo{Name: m.Series.Name, ChallongeID: m.Series.ChallongeID}
			}
			if m.PlatformID != "" {
				task.Platform = &ingest.PlatformInfo{
					PlatformID: m.PlatformID,
					MatchID:    m.PlatformMatchID,
					Ladder:     m.Ladder,
					Rated:      m.Rated,
				}
			}
			if f.Owner != nil {
				task.UserData = []ingest.PlayerData{{
					ColorID:      f.Owner.ColorID,
					UserID:       f.Owner.UserID,
					Clan:         f.Owner.Clan,
					RateBefore:   f.Owner.RateBefore,
					RateAfter:    f.Owner.RateAfter,
					RateSnapshot: f.Owner.RateSnapshot,
				}}
			}
			if err := c.AddFile(ctx, task); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddArchive walks an archive laid out as <platform>/<shard>/<match id>/
// with a metadata.json and zipped recordings per match. Match directories
// without metadata are skipped, unreadable directories are logged and
// skipped. Everything is visited in name order.
func (c *Coordinator) AddArchive(ctx context.Context, root string, singlePOV bool) error {
	platforms, err := subdirs(root)
	if err != nil {
		return err
	}
	for _, platformID := range platforms {
		c.log.Info("Starting platform", zap.String("platform", platformID))
		shards, err := subdirs(filepath.Join(root, platformID))
		if err != nil {
			c.log.Error("Skipping unreadable platform directory", zap.String("platform", platformID), zap.Error(err))
			continue
		}
		for _, shard := range shards {
			matchIDs, err := subdirs(filepath.Join(root, platformID, shard))
			if err != nil {
				c.log.Error("Skipping unreadable shard", zap.String("platform", platformID), zap.String("shard", shard), zap.Error(err))
				continue
			}
			for _, matchID := range matchIDs {
				matchPath := filepath.Join(root, platformID, shard, matchID)
				if err := c.addArchivedMatch(ctx, platformID, matchID, matchPath, singlePOV); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Coordinator) addArchivedMatch(ctx context.Context, platformID, matchID, matchPath string, singlePOV bool) error {
	log := c.log.With(zap.String("platform", platformID), zap.String("platform_match_id", matchID))

	raw, err := os.ReadFile(filepath.Join(matchPath, metadataFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		log.Error("Failed to read match metadata", zap.Error(err))
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error("Invalid match metadata", zap.Error(err))
		return nil
	}
	meta := platform.MatchFromPayload(payload)

	entries, err := os.ReadDir(matchPath)
	if err != nil {
		log.Error("Failed to list match directory", zap.Error(err))
		return nil
	}
	dir, err := c.scratch("archive-")
	if err != nil {
		return err
	}
	// Each zip gets its own directory so equal member names stay apart.
	// Members are submitted zip by zip, in name order within each zip.
	var members []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}
		extracted, err := extractZip(filepath.Join(matchPath, entry.Name()), filepath.Join(dir, entry.Name()), log)
		if err != nil {
			log.Error("Failed to extract recordings", zap.String("archive", entry.Name()), zap.Error(err))
			continue
		}
		for _, member := range extracted {
			members = append(members, path.Join(entry.Name(), member))
		}
	}

	userData := userDataOf(meta.Players)
	for _, member := range members {
		if !c.acceptsExtension(member) {
			continue
		}
		name := path.Base(member)
		task := ingest.NewTask(filepath.Join(dir, filepath.FromSlash(member)), records.SourceArchive, name)
		task.OriginalFilename = name
		task.Played = meta.Timestamp
		task.UserData = userData
		task.Platform = &ingest.PlatformInfo{
			PlatformID: platformID,
			MatchID:    matchID,
			Ladder:     meta.Ladder,
			Rated:      meta.Rated,
		}
		log.Info("Adding archived recording", zap.String("member", member))
		if err := c.AddFile(ctx, task); err != nil {
			return err
		}
		if singlePOV {
			break
		}
	}
	return nil
}

func (c *Coordinator) acceptsExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range c.opts.Pool.Extensions {
		if strings.ToLower(strings.TrimSpace(allowed)) == ext {
			return true
		}
	}
	return false
}

func (c *Coordinator) platform(id string) (platform.Platform, error) {
	if c.deps.Platforms == nil {
		return nil, fmt.Errorf("%w: %s", platform.ErrUnknownPlatform, id)
	}
	return c.deps.Platforms.Get(id)
}

func userDataOf(players []platform.Player) []ingest.PlayerData {
	out := make([]ingest.PlayerData, 0, len(players))
	for _, p := range players {
		out = append(out, ingest.PlayerData{
			ColorID:      p.ColorID,
			UserID:       p.UserID,
			Clan:         p.Clan,
			RateBefore:   p.RateBefore,
			RateAfter:    p.RateAfter,
			RateSnapshot: p.RateSnapshot,
		})
	}
	return out
}

// stage writes data to target, creating its directory.
func stage(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// subdirs lists the directories directly under dir, sorted.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
