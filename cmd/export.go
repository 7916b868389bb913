package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/tutor"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Analyze a file and write the lesson as a .doc",
	Long: `Analyze a text file, image or PDF without starting the app and write the
resulting lesson (passage, summary and vocabulary) as a Word-readable .doc.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("text", "", "File to analyze (required)")
	exportCmd.Flags().StringP("out", "o", ".", "Directory to write the .doc into")
	_ = exportCmd.MarkFlagRequired("text")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path, _ := cmd.Flags().GetString("text")
	outDir, _ := cmd.Flags().GetString("out")

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if info.Size() > tutor.MaxFileSize {
		return fmt.Errorf("%s is larger than %d MB", path, tutor.MaxFileSize>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

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

	client, err := headlessClient(ctx, cmd, st, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Analyzing %s...\n", filepath.Base(path))
	l, err := client.Analyze(ctx, tutor.FileInput(filepath.Base(path), data, ""))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out := filepath.Join(outDir, lesson.Filename(l.Title))
	if err := os.WriteFile(out, lesson.Export(l), 0o644); err != nil {
		return fmt.Errorf("write lesson: %w", err)
	}

	color.New(color.FgGreen).Printf("✓ %s\n", l.Title)
	fmt.Printf("  %d vocabulary words\n", len(l.Vocabulary))
	fmt.Printf("  written to %s\n", out)
	return nil
}
