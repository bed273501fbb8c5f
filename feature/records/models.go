package records

import "time"

// Source is the provenance of an upload (cli, platform, zip, db, archive).
type Source struct {
	ID   uint   `gorm:"primaryKey;column:id" json:"id"`
	Name string `gorm:"column:name;size:64;not null;uniqueIndex" json:"name"`
}

// Platform is a match-hosting service.
type Platform struct {
	ID   string `gorm:"primaryKey;column:id;size:32" json:"id"`
	Name string `gorm:"column:name;size:64;not null" json:"name"`
	URL  string `gorm:"column:url;size:255" json:"url"`
}

// Ladder is a named ladder on a platform.
type Ladder struct {
	ID         uint   `gorm:"primaryKey;column:id" json:"id"`
	PlatformID string `gorm:"column:platform_id;size:32;not null;uniqueIndex:idx_ladders_platform_name" json:"platform_id"`
	Name       string `gorm:"column:name;size:128;not null;uniqueIndex:idx_ladders_platform_name" json:"name"`
}

// Series groups the matches of one tournament set.
type Series struct {
	ID          string    `gorm:"primaryKey;column:id;size:128" json:"id"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	ChallongeID *string   `gorm:"column:challonge_id;size:64" json:"challonge_id,omitempty"`
	Added       time.Time `gorm:"column:added;autoCreateTime" json:"added"`
}

// Match is one logical game, identified by the parser-derived hash.
type Match struct {
	ID              uint       `gorm:"primaryKey;column:id" json:"id"`
	Hash            string     `gorm:"column:hash;size:64;not null;uniqueIndex" json:"hash"`
	SeriesID        *string    `gorm:"column:series_id;size:128;index" json:"series_id,omitempty"`
	Version         string     `gorm:"column:version;size:32" json:"version"`
	MinorVersion    string     `gorm:"column:minor_version;size:32" json:"minor_version"`
	DatasetID       int        `gorm:"column:dataset_id" json:"dataset_id"`
	DatasetVersion  string     `gorm:"column:dataset_version;size:32" json:"dataset_version"`
	PlatformID      *string    `gorm:"column:platform_id;size:32;index" json:"platform_id,omitempty"`
	PlatformMatchID *string    `gorm:"column:platform_match_id;size:64;index" json:"platform_match_id,omitempty"`
	LadderID        *uint      `gorm:"column:ladder_id" json:"ladder_id,omitempty"`
	Rated           *bool      `gorm:"column:rated" json:"rated,omitempty"`
	WinningTeamID   *int       `gorm:"column:winning_team_id" json:"winning_team_id,omitempty"`
	MapID           int        `gorm:"column:map_id" json:"map_id"`
	MapName         string     `gorm:"column:map_name;size:128" json:"map_name"`
	MapSize         string     `gorm:"column:map_size;size:32" json:"map_size"`
	MapSeed         *int       `gorm:"column:map_seed" json:"map_seed,omitempty"`
	Played          *time.Time `gorm:"column:played" json:"played,omitempty"`
	Added           time.Time  `gorm:"column:added;autoCreateTime" json:"added"`
	DurationMs      int64      `gorm:"column:duration_ms" json:"duration_ms"`
	Completed       bool       `gorm:"column:completed" json:"completed"`
	Restored        bool       `gorm:"column:restored" json:"restored"`
	Postgame        bool       `gorm:"column:postgame" json:"postgame"`
	Forced          bool       `gorm:"column:forced" json:"forced"`
	DiplomacyType   string     `gorm:"column:diplomacy_type;size:16" json:"diplomacy_type"`
	TeamSize        string     `gorm:"column:team_size;size:16" json:"team_size"`
	PopulationLimit int        `gorm:"column:population_limit" json:"population_limit"`
	Cheats          bool       `gorm:"column:cheats" json:"cheats"`
	LockTeams       bool       `gorm:"column:lock_teams" json:"lock_teams"`
	Speed           string     `gorm:"column:speed;size:16" json:"speed"`
}

// Team is keyed by (match, team id).
type Team struct {
	MatchID uint `gorm:"primaryKey;autoIncrement:false;column:match_id" json:"match_id"`
	TeamID  int  `gorm:"primaryKey;autoIncrement:false;column:team_id" json:"team_id"`
	Winner  bool `gorm:"column:winner" json:"winner"`
}

// Player is keyed by (match, in-game number). Identity and rating fields are
// filled from platform data and may arrive after the match was created.
type Player struct {
	MatchID        uint     `gorm:"primaryKey;autoIncrement:false;column:match_id" json:"match_id"`
	Number         int      `gorm:"primaryKey;autoIncrement:false;column:number" json:"number"`
	Name           string   `gorm:"column:name;size:128;not null" json:"name"`
	ColorID        int      `gorm:"column:color_id;not null" json:"color_id"`
	TeamID         int      `gorm:"column:team_id" json:"team_id"`
	CivilizationID int      `gorm:"column:civilization_id" json:"civilization_id"`
	StartX         *int     `gorm:"column:start_x" json:"start_x,omitempty"`
	StartY         *int     `gorm:"column:start_y" json:"start_y,omitempty"`
	Human          bool     `gorm:"column:human" json:"human"`
	Winner         bool     `gorm:"column:winner" json:"winner"`
	Score          *int     `gorm:"column:score" json:"score,omitempty"`
	PlatformID     *string  `gorm:"column:platform_id;size:32" json:"platform_id,omitempty"`
	UserID         *string  `gorm:"column:user_id;size:64" json:"user_id,omitempty"`
	Clan           *string  `gorm:"column:clan;size:64" json:"clan,omitempty"`
	RateBefore     *float64 `gorm:"column:rate_before" json:"rate_before,omitempty"`
	RateAfter      *float64 `gorm:"column:rate_after" json:"rate_after,omitempty"`
	RateSnapshot   *float64 `gorm:"column:rate_snapshot" json:"rate_snapshot,omitempty"`
}

// File is one physical upload. Hash is the SHA-1 of the raw bytes.
type File struct {
	ID               uint      `gorm:"primaryKey;column:id" json:"id"`
	MatchID          uint      `gorm:"column:match_id;not null;index" json:"match_id"`
	Hash             string    `gorm:"column:hash;size:64;not null;uniqueIndex" json:"hash"`
	Filename         string    `gorm:"column:filename;size:255;not null" json:"filename"`
	OriginalFilename string    `gorm:"column:original_filename;size:255" json:"original_filename"`
	Encoding         string    `gorm:"column:encoding;size:32" json:"encoding"`
	Language         string    `gorm:"column:language;size:32" json:"language"`
	Size             int64     `gorm:"column:size;not null" json:"size"`
	CompressedSize   int64     `gorm:"column:compressed_size;not null" json:"compressed_size"`
	OwnerNumber      int       `gorm:"column:owner_number;not null" json:"owner_number"`
	SourceID         *uint     `gorm:"column:source_id" json:"source_id,omitempty"`
	Reference        string    `gorm:"column:reference;size:255" json:"reference"`
	ParserVersion    string    `gorm:"column:parser_version;size:32;not null" json:"parser_version"`
	Added            time.Time `gorm:"column:added;autoCreateTime" json:"added"`
}

// Tag labels a match. (name, match) is unique.
type Tag struct {
	ID      uint   `gorm:"primaryKey;column:id" json:"id"`
	Name    string `gorm:"column:name;size:128;not null;uniqueIndex:idx_tags_name_match" json:"name"`
	MatchID uint   `gorm:"column:match_id;not null;uniqueIndex:idx_tags_name_match" json:"match_id"`
}

func (Series) TableName() string { return "series" }

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&Source{}, &Platform{}, &Ladder{}, &Series{},
		&Match{}, &Team{}, &Player{}, &File{}, &Tag{},
	}
}
