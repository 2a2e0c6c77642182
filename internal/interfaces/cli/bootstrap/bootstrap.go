// Package bootstrap holds the start-up steps shared by every subcommand.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/tdesk-io/tdesk/internal/infrastructure/config"
	"github.com/tdesk-io/tdesk/internal/infrastructure/database"
	"github.com/tdesk-io/tdesk/internal/shared/biztime"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// Flags are the persistent options accepted by every subcommand.
type Flags struct {
	Env        string
	ConfigPath string
	Verbose    bool
}

// ResolveEnv lets the ENV variable override the --env flag.
func (f *Flags) ResolveEnv() string {
	if v := os.Getenv("ENV"); v != "" {
		f.Env = v
	}
	return f.Env
}

// LoadConfig reads configuration and initialises the global logger and the
// business timezone.
func LoadConfig(f *Flags) (*config.Config, error) {
	env := f.ResolveEnv()

	var (
		cfg *config.Config
		err error
	)
	if f.ConfigPath != "" {
		cfg, err = config.LoadFile(f.ConfigPath, env)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
		Verbose:    f.Verbose,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}
	return cfg, nil
}

// OpenDatabase loads configuration and connects the global database handle.
// Callers close it with database.Close.
func OpenDatabase(f *Flags) (*config.Config, error) {
	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, err
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, nil
}
