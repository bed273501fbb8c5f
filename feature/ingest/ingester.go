package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"mgzdb/core/logger"
	"mgzdb/core/parser"
	"mgzdb/core/platform"
	"mgzdb/feature/records"

	"github.com/avast/retry-go"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options tunes the integrity-conflict retry.
type Options struct {
	// Retries is the number of attempts after the first conflict.
	Retries int
	// RetryDelay is the base delay between attempts.
	RetryDelay time.Duration
}

// Ingester runs the file ingestion procedure against one resource bundle.
// It implements pool.Worker[Task, Outcome].
type Ingester struct {
	res  *Resources
	opts Options
	log  *zap.Logger
}

// NewIngester creates an ingester that owns res.
func NewIngester(res *Resources, opts Options, log *zap.Logger) *Ingester {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 50 * time.Millisecond
	}
	return &Ingester{res: res, opts: opts, log: log}
}

// Handle satisfies pool.Worker.
func (in *Ingester) Handle(ctx context.Context, task Task) Outcome {
	return in.AddFile(ctx, task)
}

// Close releases the resource bundle.
func (in *Ingester) Close() error {
	return in.res.Close()
}

// AddFile ingests one file: hash, dedupe, parse, reconcile, store, commit.
// Every stop state is reported in the Outcome; nothing here panics or
// returns early without one.
func (in *Ingester) AddFile(ctx context.Context, task Task) Outcome {
	log := logger.WithTask(in.log, task.ID, task.Path)
	out := Outcome{TaskID: task.ID, Path: task.Path}

	data, err := os.ReadFile(task.Path)
	if err != nil {
		log.Error("Failed to read file", zap.Error(err))
		return out.with(KindFailed, ReasonError, fmt.Errorf("failed to read %s: %w", task.Path, err))
	}

	sum := sha1.Sum(data)
	out.FileHash = hex.EncodeToString(sum[:])
	log = log.With(zap.String("file_hash", out.FileHash))

	existing, err := records.FileByHash(in.res.DB.WithContext(ctx), out.FileHash)
	if err != nil {
		log.Error("Failed to check for duplicate", zap.Error(err))
		return out.with(KindFailed, ReasonError, err)
	}
	if existing != nil {
		log.Info("File already exists, skipping", zap.Uint("file_id", existing.ID))
		out.FileID = existing.ID
		out.MatchID = existing.MatchID
		return out.with(KindSkipped, ReasonDuplicate, nil)
	}

	summary, err := in.res.Parser.Parse(ctx, data)
	if err != nil {
		log.Error("Failed to parse file", zap.Error(err))
		if errors.Is(err, parser.ErrInvalidFormat) {
			return out.with(KindFailed, ReasonInvalid, err)
		}
		return out.with(KindFailed, ReasonError, err)
	}
	out.MatchHash = summary.MatchHash
	log = log.With(zap.String("match_hash", summary.MatchHash))

	in.enrichUserData(ctx, &task, log)

	blob := fileBlob{
		size:       int64(len(data)),
		compressed: in.res.Codec.Compress(data),
		version:    parserVersion(summary, in.res.Parser),
	}
	played, gameVersion := resolvePlayed(task, summary)

	err = retry.Do(
		func() error {
			var err error
			out.FileID, out.MatchID, out.Primary, err = in.persist(ctx, task, summary, out.FileHash, blob, played, gameVersion)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(in.opts.Retries)+1),
		retry.Delay(in.opts.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, gorm.ErrDuplicatedKey)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Integrity conflict, retrying", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)

	switch {
	case err == nil:
		log.Info("File committed",
			zap.Uint("file_id", out.FileID),
			zap.Uint("match_id", out.MatchID),
			zap.Bool("primary", out.Primary))
		return out.with(KindSuccess, ReasonCommitted, nil)
	case errors.Is(err, ErrFlagged):
		log.Warn("Match is incomplete or restored, skipping (use force to add)",
			zap.Bool("completed", summary.Completed),
			zap.Bool("restored", summary.Restored))
		return out.with(KindSkipped, ReasonFlagged, err)
	case errors.Is(err, errDuplicateFile):
		log.Info("File was added concurrently, skipping")
		return out.with(KindSkipped, ReasonDuplicate, nil)
	default:
		log.Error("Failed to commit file", zap.Error(err))
		return out.with(KindFailed, ReasonError, err)
	}
}

type fileBlob struct {
	size       int64
	compressed []byte
	version    string
}

// persist runs one attempt of the reconcile, store and commit steps in a
// single transaction. A duplicate-key error means another writer won a
// race; the caller retries and the next attempt sees the winner's rows.
func (in *Ingester) persist(ctx context.Context, task Task, summary *parser.Summary, fileHash string, blob fileBlob, played *time.Time, gameVersion string) (fileID, matchID uint, primary bool, err error) {
	err = in.res.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dup, err := records.FileByHash(tx, fileHash)
		if err != nil {
			return err
		}
		if dup != nil {
			return errDuplicateFile
		}

		match, err := records.MatchByHash(tx, summary.MatchHash)
		if err != nil {
			return err
		}
		if match == nil {
			if summary.Flagged() && !task.Force {
				return ErrFlagged
			}
			match, primary, err = in.createMatch(tx, task, summary, played, gameVersion)
			if err != nil {
				return err
			}
		}
		matchID = match.ID

		if err := applyUserData(tx, match.ID, task); err != nil {
			return err
		}

		var sourceID *uint
		if task.Source != "" {
			source, _, err := records.GetOrCreate(tx, map[string]any{"name": task.Source}, func() *records.Source {
				return &records.Source{Name: task.Source}
			})
			if err != nil {
				return err
			}
			sourceID = &source.ID
		}

		objectPath := in.res.Store.Path(fileHash)
		if err := in.res.Store.Put(ctx, objectPath, blob.compressed); err != nil {
			return err
		}

		file := records.File{
			MatchID:          match.ID,
			Hash:             fileHash,
			Filename:         path.Base(objectPath),
			OriginalFilename: task.originalFilename(),
			Encoding:         summary.Encoding,
			Language:         summary.Language,
			Size:             blob.size,
			CompressedSize:   int64(len(blob.compressed)),
			OwnerNumber:      summary.OwnerNumber,
			SourceID:         sourceID,
			Reference:        task.Reference,
			ParserVersion:    blob.version,
		}
		if err := tx.Create(&file).Error; err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		fileID = file.ID
		return nil
	})
	return fileID, matchID, primary, err
}

// createMatch creates the Match and, when this call wins the race, its
// teams, players and tags. Losing the race yields the existing Match and
// primary=false.
func (in *Ingester) createMatch(tx *gorm.DB, task Task, summary *parser.Summary, played *time.Time, gameVersion string) (*records.Match, bool, error) {
	seriesID, err := resolveSeries(tx, task.Series)
	if err != nil {
		return nil, false, err
	}

	var (
		platformID      *string
		platformMatchID *string
		ladderID        *uint
		rated           = summary.Rated
	)
	if p := task.Platform; p != nil && p.PlatformID != "" {
		platformID = &p.PlatformID
		if p.MatchID != "" {
			platformMatchID = &p.MatchID
		}
		if rated == nil {
			rated = p.Rated
		}
		if p.Ladder != "" {
			ladder, _, err := records.GetOrCreate(tx, map[string]any{"platform_id": p.PlatformID, "name": p.Ladder}, func() *records.Ladder {
				return &records.Ladder{PlatformID: p.PlatformID, Name: p.Ladder}
			})
			if err != nil {
				return nil, false, err
			}
			ladderID = &ladder.ID
		}
	}

	var winningTeam *int
	if w := summary.WinningTeam(); w != 0 {
		winningTeam = &w
	}

	match, created, err := records.GetOrCreate(tx, map[string]any{"hash": summary.MatchHash}, func() *records.Match {
		return &records.Match{
			Hash:            summary.MatchHash,
			SeriesID:        seriesID,
			Version:         gameVersion,
			MinorVersion:    summary.MinorVersion,
			DatasetID:       summary.DatasetID,
			DatasetVersion:  summary.DatasetVersion,
			PlatformID:      platformID,
			PlatformMatchID: platformMatchID,
			LadderID:        ladderID,
			Rated:           rated,
			WinningTeamID:   winningTeam,
			MapID:           summary.Map.ID,
			MapName:         summary.Map.Name,
			MapSize:         summary.Map.Size,
			MapSeed:         summary.Map.Seed,
			Played:          played,
			DurationMs:      summary.DurationMs,
			Completed:       summary.Completed,
			Restored:        summary.Restored,
			Postgame:        summary.Postgame,
			Forced:          task.Force && summary.Flagged(),
			DiplomacyType:   summary.DiplomacyType,
			TeamSize:        summary.TeamSize,
			PopulationLimit: summary.PopulationLimit,
			Cheats:          summary.Cheats,
			LockTeams:       summary.LockTeams,
			Speed:           summary.Speed,
		}
	})
	if err != nil || !created {
		return match, false, err
	}

	for _, team := range summary.Teams {
		_, _, err := records.GetOrCreate(tx, map[string]any{"match_id": match.ID, "team_id": team.ID}, func() *records.Team {
			return &records.Team{MatchID: match.ID, TeamID: team.ID, Winner: winningTeam != nil && *winningTeam == team.ID}
		})
		if err != nil {
			return nil, false, err
		}
	}

	for _, p := range summary.Players {
		_, _, err := records.GetOrCreate(tx, map[string]any{"match_id": match.ID, "number": p.Number}, func() *records.Player {
			return &records.Player{
				MatchID:        match.ID,
				Number:         p.Number,
				Name:           p.Name,
				ColorID:        p.ColorID,
				TeamID:         summary.TeamOf(p.Number),
				CivilizationID: p.CivilizationID,
				StartX:         p.StartX,
				StartY:         p.StartY,
				Human:          p.Human,
				Winner:         p.Winner,
				Score:          p.Score,
				PlatformID:     platformID,
			}
		})
		if err != nil {
			return nil, false, err
		}
	}

	if err := records.AddTags(tx, match.ID, task.Tags); err != nil {
		return nil, false, err
	}
	return match, true, nil
}

// applyUserData fills identity and rating fields of the players whose color
// matches. Structural fields set by the primary ingestion are never touched.
func applyUserData(tx *gorm.DB, matchID uint, task Task) error {
	for _, d := range task.UserData {
		updates := map[string]any{}
		if d.UserID != "" {
			updates["user_id"] = d.UserID
			if task.Platform != nil && task.Platform.PlatformID != "" {
				updates["platform_id"] = task.Platform.PlatformID
			}
		}
		if d.Clan != "" {
			updates["clan"] = d.Clan
		}
		if d.RateBefore != nil {
			updates["rate_before"] = *d.RateBefore
		}
		if d.RateAfter != nil {
			updates["rate_after"] = *d.RateAfter
		}
		if d.RateSnapshot != nil {
			updates["rate_snapshot"] = *d.RateSnapshot
		}
		if len(updates) == 0 {
			continue
		}
		err := tx.Model(&records.Player{}).
			Where("match_id = ? AND color_id = ?", matchID, d.ColorID).
			Updates(updates).Error
		if err != nil {
			return fmt.Errorf("failed to update player with color %d: %w", d.ColorID, err)
		}
	}
	return nil
}

// enrichUserData looks up missing clans on the task's platform. Failures
// only cost the clan, so they are logged at debug level.
func (in *Ingester) enrichUserData(ctx context.Context, task *Task, log *zap.Logger) {
	if task.Platform == nil || in.res.Platforms == nil {
		return
	}
	p, err := in.res.Platforms.Get(task.Platform.PlatformID)
	if err != nil {
		return
	}
	for i := range task.UserData {
		d := &task.UserData[i]
		if d.UserID == "" || d.Clan != "" {
			continue
		}
		user, err := p.FindUser(ctx, d.UserID)
		if err != nil {
			if errors.Is(err, platform.ErrUnsupported) {
				return
			}
			log.Debug("Failed to look up user", zap.String("user_id", d.UserID), zap.Error(err))
			continue
		}
		d.Clan = user.Clan
	}
}

func resolveSeries(tx *gorm.DB, info *SeriesInfo) (*string, error) {
	if info == nil || (info.Name == "" && info.ChallongeID == "") {
		return nil, nil
	}
	id := info.ChallongeID
	if id == "" {
		id = slug.Make(info.Name)
	}
	name := info.Name
	if name == "" {
		name = id
	}
	series, _, err := records.GetOrCreate(tx, map[string]any{"id": id}, func() *records.Series {
		s := &records.Series{ID: id, Name: name}
		if info.ChallongeID != "" {
			s.ChallongeID = &info.ChallongeID
		}
		return s
	})
	if err != nil {
		return nil, err
	}
	return &series.ID, nil
}

// resolvePlayed picks the played timestamp: the task's, then the replay's,
// then the one encoded in the original filename.
func resolvePlayed(task Task, summary *parser.Summary) (*time.Time, string) {
	version := summary.Version
	fromName, nameVersion, ok := parser.ParseFilename(task.originalFilename())
	if version == "" && ok {
		version = nameVersion
	}
	switch {
	case task.Played != nil:
		return task.Played, version
	case summary.Played != nil:
		return summary.Played, version
	case ok:
		return &fromName, version
	}
	return nil, version
}

func parserVersion(summary *parser.Summary, p parser.Parser) string {
	if v := p.Version(); v != "" {
		return v
	}
	if summary.ParserVersion != "" {
		return summary.ParserVersion
	}
	return "unknown"
}
