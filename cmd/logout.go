package cmd

import (
	"fmt"

	"github.com/abhisek/englishbuddy/internal/appstate"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		creds := appstate.SettingsCredentials{Repo: st.SettingsRepo()}
		_, had, err := creds.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("read credential: %w", err)
		}
		if !had {
			color.New(color.FgYellow).Println("No API key saved.")
			return nil
		}
		if err := creds.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear credential: %w", err)
		}
		color.New(color.FgGreen).Println("✓ API key removed.")
		return nil
	},
}
