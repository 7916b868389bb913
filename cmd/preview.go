package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/englishbuddy/internal/quiz"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a generated quiz for a passage (no database)",
	Long: `Generate a comprehension quiz for a text file and answer it in the terminal.

This is a stateless developer tool: no database, no saved key, no call log.
The provider key is read from the environment. Useful for checking quiz quality.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("text", "", "Text file to build the quiz from (required)")
	_ = previewCmd.MarkFlagRequired("text")
}

func runPreview(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("text")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return errors.New("input file is empty")
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	client, err := headlessClient(ctx, cmd, nil, log)
	if err != nil {
		return err
	}

	fmt.Println("Generating quiz...")
	questions, err := client.GenerateQuiz(ctx, text)
	if err != nil {
		return err
	}
	session, err := quiz.Start(text, questions)
	if err != nil {
		return err
	}

	good := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	scanner := bufio.NewScanner(os.Stdin)

	for !session.Completed() {
		q := session.Current()
		fmt.Printf("\n── Question %d/%d (%s) ──\n", session.Index()+1, session.Len(), q.Type)
		fmt.Println(q.Question)
		choices := q.Choices()
		for j, c := range choices {
			fmt.Printf("  %d) %s\n", j+1, c)
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			return nil
		}
		answer := pickChoice(strings.TrimSpace(scanner.Text()), choices)
		if !session.Answer(answer) || !session.Reveal() {
			fmt.Println("(enter an answer)")
			continue
		}

		if session.Current().Correct() {
			good.Println("✓ Correct!")
		} else {
			bad.Print("✗ Not quite.")
			fmt.Printf(" Answer: %s\n", q.CorrectAnswer)
		}
		if q.Explanation != "" {
			fmt.Printf("Explanation: %s\n", q.Explanation)
		}
		session.Advance()
	}

	score, _ := session.Score()
	fmt.Printf("\n── Score: %d%% (%d of %d correct) ──\n", score, session.CorrectCount(), session.Len())
	return nil
}

// pickChoice maps a typed option number to the option text.
func pickChoice(answer string, choices []string) string {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1]
	}
	return answer
}
