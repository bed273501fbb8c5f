package parser

// Config holds configuration for the external replay parser.
type Config struct {
	// Command is the executable that reads a replay on stdin and writes a JSON summary.
	Command string `mapstructure:"command" default:"mgz-summary"`
	// Args are extra arguments passed to Command.
	Args []string `mapstructure:"args" default:""`
	// TimeoutSeconds bounds one parse.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// Version is recorded on every File. Empty falls back to the version the command reports.
	Version string `mapstructure:"version" default:""`
}
