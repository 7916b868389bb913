package cmd

import (
	"github.com/abhisek/englishbuddy/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "englishbuddy",
	Short: "Learn English from your own reading",
	Long: "EnglishBuddy turns a passage, a photo of a page or a PDF into a lesson: " +
		"the text read aloud, key vocabulary with Vietnamese meanings, and a comprehension quiz.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides ENGLISHBUDDY_DB env var)")
	pf.String("provider", "", "LLM provider: gemini, openai, anthropic or openrouter (overrides ENGLISHBUDDY_LLM_PROVIDER)")
	pf.String("log-file", "", "Write logs to this file (overrides ENGLISHBUDDY_LOG env var)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.Flags().String("export-dir", "", "Directory for exported lessons (default: working directory)")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ENGLISHBUDDY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
