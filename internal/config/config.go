package config

import (
	"flag"
	"os"
	"strconv"
)

// Record type selectors understood by the inspector.
const (
	RecordStats   = "stats"
	RecordRanging = "ranging"
)

// Config holds all inspector configuration.
type Config struct {
	Type  string // record type: "stats" or "ranging"
	Input string // path to the hex blob, "-" for stdin
	Gen   bool   // generate a sample blob instead of decoding
	Seed  int64  // seed for sample generation
	Debug bool
}

// Load parses command line flags and environment variables to populate
// Config. Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Type = getEnv("WIFITELEM_TYPE", RecordStats)
	cfg.Input = getEnv("WIFITELEM_INPUT", "-")
	cfg.Seed = getEnvInt64("WIFITELEM_SEED", 1)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Type, "type", cfg.Type, "Record type: stats or ranging")
	flag.StringVar(&cfg.Input, "in", cfg.Input, "Input file with a hex-encoded blob ('-' for stdin)")
	flag.BoolVar(&cfg.Gen, "gen", false, "Generate a sample blob instead of decoding")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for sample generation")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
