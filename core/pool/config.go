package pool

import "runtime"

// Config holds configuration for the ingestion worker pool.
type Config struct {
	// Workers is the number of pooled workers. Zero means one per CPU.
	Workers int `mapstructure:"workers" default:"0"`
	// Consecutive runs every task synchronously on the caller.
	Consecutive bool `mapstructure:"consecutive" default:"false"`
	// Retries bounds how often a task retries after an integrity conflict.
	Retries int `mapstructure:"retries" default:"3"`
	// Extensions lists the replay file suffixes accepted from archives.
	Extensions []string `mapstructure:"extensions" default:".mgz,.mgx,.mgl,.aoe2record,.replay"`
	// TempDir is the parent of the scoped temporary directory. Empty uses the OS default.
	TempDir string `mapstructure:"temp_dir" default:""`
	// QueueSize bounds pending tasks and undelivered results.
	QueueSize int `mapstructure:"queue_size" default:"64"`
}

// WorkerCount resolves the effective number of workers.
func (c Config) WorkerCount() int {
	if c.Consecutive {
		return 1
	}
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

func (c Config) queueSize() int {
	if c.QueueSize > 0 {
		return c.QueueSize
	}
	return 64
}
