package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/englishbuddy/internal/app"
	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	eventRepo := st.EventRepo()
	cfg := providerConfig(cmd)
	machine := appstate.New(
		lesson.NewStore(),
		appstate.SettingsCredentials{Repo: st.SettingsRepo()},
		connector(cfg, eventRepo, log),
		log,
	)
	if _, err := machine.Restore(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Saved API key could not be used:", err)
		fmt.Fprintln(os.Stderr, "You can enter a new one in the app.")
		log.Warn("restore credential failed", "provider", cfg.Provider, "error", err)
	}

	exportDir, _ := cmd.Flags().GetString("export-dir")
	return app.Run(ctx, app.Options{
		Machine:   machine,
		Player:    audio.NewSpeakerPlayer(),
		EventRepo: eventRepo,
		Logger:    log,
		ExportDir: exportDir,
	})
}
