package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/campus-lab/minerva/pkg/cli/config"
	"github.com/campus-lab/minerva/pkg/repository/memory"
)

// parseFlags runs a throwaway command so flag destinations get filled
// the same way the real CLI fills them.
func parseFlags(t *testing.T, flags []cli.Flag, args []string) {
	t.Helper()
	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
}

func TestLoggerConfigureToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minerva.log")

	var cfg config.Logger
	parseFlags(t, cfg.Flags(), []string{"--log-level", "info", "--log-format", "json", "--log-output", path})

	closer, err := cfg.Configure()
	gt.NoError(t, err).Required()
	defer closer()

	_, err = os.Stat(path)
	gt.NoError(t, err)
}

func TestLoggerConfigureInvalidLevel(t *testing.T) {
	var cfg config.Logger
	parseFlags(t, cfg.Flags(), []string{"--log-level", "verbose"})

	_, err := cfg.Configure()
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestLoggerConfigureInvalidFormat(t *testing.T) {
	var cfg config.Logger
	parseFlags(t, cfg.Flags(), []string{"--log-format", "xml"})

	_, err := cfg.Configure()
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestIndexConfigureMemory(t *testing.T) {
	var cfg config.Index
	parseFlags(t, cfg.Flags(), []string{"--index-backend", "memory"})

	idx, err := cfg.Configure(context.Background())
	gt.NoError(t, err).Required()

	_, ok := idx.(*memory.Index)
	gt.Bool(t, ok).True()
}

func TestIndexConfigureFirestoreRequiresProject(t *testing.T) {
	var cfg config.Index
	parseFlags(t, cfg.Flags(), []string{"--index-backend", "firestore"})

	_, err := cfg.Configure(context.Background())
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestIndexConfigureUnknownBackend(t *testing.T) {
	var cfg config.Index
	parseFlags(t, cfg.Flags(), []string{"--index-backend", "redis"})

	_, err := cfg.Configure(context.Background())
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestDatasetConfigure(t *testing.T) {
	root := t.TempDir()

	var cfg config.Dataset
	parseFlags(t, cfg.Flags(), []string{"--data-root", root})
	gt.Value(t, cfg.Root()).Equal(root)

	store, err := cfg.Configure(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, store).NotNil()
}

func TestGeminiConfigureRequiresProject(t *testing.T) {
	var cfg config.Gemini
	parseFlags(t, cfg.Flags(), nil)

	_, err := cfg.Configure(context.Background())
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}
