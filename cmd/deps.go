package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/logger"
	"github.com/abhisek/englishbuddy/internal/store"
	"github.com/abhisek/englishbuddy/internal/tutor"
	"github.com/spf13/cobra"
)

// openStore opens the database selected by --db or the environment.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newLogger builds the file logger. Without --log-file or ENGLISHBUDDY_LOG
// nothing is logged.
func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	path, _ := cmd.Flags().GetString("log-file")
	if path == "" {
		path = os.Getenv("ENGLISHBUDDY_LOG")
	}
	level, _ := cmd.Flags().GetString("log-level")
	log, err := logger.New(logger.Options{Mode: "dev", Level: level, Path: path})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// providerConfig reads the LLM configuration from ENGLISHBUDDY_* variables,
// falls back to the first standard provider key found, and applies
// --provider last.
func providerConfig(cmd *cobra.Command) llm.Config {
	cfg := llm.ConfigFromEnv()
	if os.Getenv("ENGLISHBUDDY_LLM_PROVIDER") == "" && !cfg.HasAPIKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg = found
		}
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider = p
	}
	return cfg
}

// connector binds a saved key to cfg and builds the tutor client for it.
func connector(cfg llm.Config, events store.EventRepo, log *logger.Logger) appstate.Connector {
	return func(ctx context.Context, key string) (appstate.Collaborator, error) {
		provider, err := llm.NewProvider(ctx, cfg.WithAPIKey(key), events, log)
		if err != nil {
			return nil, err
		}
		return tutor.New(provider, tutor.DefaultConfig(), log), nil
	}
}

// headlessClient builds a tutor client for commands that run without the
// TUI. The saved key wins over one found in the environment.
func headlessClient(ctx context.Context, cmd *cobra.Command, st *store.Store, log *logger.Logger) (*tutor.Client, error) {
	cfg := providerConfig(cmd)

	var events store.EventRepo
	if st != nil {
		events = st.EventRepo()
		key, ok, err := appstate.SettingsCredentials{Repo: st.SettingsRepo()}.Load(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			cfg = cfg.WithAPIKey(key)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", tutor.ErrCredentialMissing, err)
	}

	provider, err := llm.NewProvider(ctx, cfg, events, log)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return tutor.New(provider, tutor.DefaultConfig(), log), nil
}
