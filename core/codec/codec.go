package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Extension is appended to content hashes to name stored blobs.
const Extension = ".zst"

// Config holds configuration for blob compression.
type Config struct {
	// Level is the zstd encoder level (fastest, default, better, best).
	Level string `mapstructure:"level" default:"best"`
}

// Codec compresses replay bytes for storage and restores them.
// EncodeAll and DecodeAll are safe for concurrent use, but each worker still
// builds its own Codec alongside the rest of its resources.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a codec with the configured encoder level.
func New(cfg Config) (*Codec, error) {
	level := zstd.SpeedBestCompression
	if cfg.Level != "" {
		ok, l := zstd.EncoderLevelFromString(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("unknown compression level %q", cfg.Level)
		}
		level = l
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Codec{encoder: encoder, decoder: decoder}, nil
}

// Compress returns the compressed form of data.
func (c *Codec) Compress(data []byte) []byte {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Decompress restores bytes produced by Compress.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress blob: %w", err)
	}
	return out, nil
}

// Close releases encoder and decoder resources.
func (c *Codec) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}
