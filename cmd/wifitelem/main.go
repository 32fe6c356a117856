package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lcalzada-xor/wifitelem/internal/config"
	"github.com/lcalzada-xor/wifitelem/internal/core/domain"
	"github.com/lcalzada-xor/wifitelem/internal/mock"
)

func main() {
	// Setup Structured Logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	if cfg.Type != config.RecordStats && cfg.Type != config.RecordRanging {
		slog.Error("Unknown record type", "type", cfg.Type)
		os.Exit(2)
	}

	if cfg.Gen {
		if err := generate(cfg); err != nil {
			slog.Error("Failed to generate sample", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := dump(cfg); err != nil {
		slog.Error("Failed to decode blob", "type", cfg.Type, "error", err)
		os.Exit(1)
	}
}

// generate emits one hex-encoded sample record on stdout.
func generate(cfg *config.Config) error {
	gen := mock.NewGenerator(cfg.Seed)

	var blob []byte
	var err error
	switch cfg.Type {
	case config.RecordStats:
		blob, err = gen.UsabilityStatsEntry().MarshalBinary()
	case config.RecordRanging:
		blob, err = gen.RangingResult().MarshalBinary()
	}
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(blob))
	return nil
}

// dump decodes the input blob and prints its diagnostic rendering.
func dump(cfg *config.Config) error {
	raw, err := readInput(cfg.Input)
	if err != nil {
		return err
	}
	blob, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("input is not valid hex: %w", err)
	}

	if cfg.Debug {
		slog.Debug("Decoding blob", "type", cfg.Type, "bytes", len(blob))
	}

	switch cfg.Type {
	case config.RecordStats:
		entry, err := domain.DecodeUsabilityStatsEntry(blob)
		if err != nil {
			return err
		}
		fmt.Println(entry)
	case config.RecordRanging:
		result, err := domain.DecodeRangingResult(blob)
		if err != nil {
			return err
		}
		fmt.Println(result)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
