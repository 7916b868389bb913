package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/store"
	"github.com/fatih/color"
	"github.com/itchyny/json2yaml"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the log of model calls",
	Long: `Every call the tutor makes (lesson analysis, word lookups, quizzes and
speech) is stored with its prompt, response, token counts and latency.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		if err := checkPurpose(purpose); err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printEventList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one call with its full request and response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}
		asYAML, _ := cmd.Flags().GetBool("yaml")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), e, asYAML)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		byPurpose, err := s.EventRepo().LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No model calls recorded yet.")
			return nil
		}
		printPurposeUsage(out, byPurpose)
		if len(byModel) > 0 {
			fmt.Fprintln(out)
			printModelCost(out, byModel)
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: "+strings.Join(purposeNames(), ", "))
	llmViewCmd.Flags().Bool("yaml", false, "Print JSON bodies as YAML")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

func purposeNames() []string {
	return append(lo.Map(llm.Purposes, func(p llm.Purpose, _ int) string { return string(p) }),
		string(llm.PurposeUnknown))
}

func checkPurpose(p string) error {
	if p == "" || slices.Contains(purposeNames(), p) {
		return nil
	}
	return fmt.Errorf("unknown purpose %q (want one of %s)", p, strings.Join(purposeNames(), ", "))
}

func rule(w io.Writer, n int) { fmt.Fprintln(w, strings.Repeat("─", n)) }

func printEventList(w io.Writer, events []store.LLMEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No model calls recorded.")
		return
	}
	const row = "%-5v  %-19s  %-8s  %-28s  %6v  %6v  %7v  "
	fmt.Fprintf(w, row+"%s\n", "ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	rule(w, 96)
	for _, e := range events {
		fmt.Fprintf(w, row, e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Purpose,
			truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs)
		if e.Success {
			color.New(color.FgGreen).Fprintln(w, "✓")
		} else {
			color.New(color.FgRed).Fprintln(w, "✗")
		}
	}
}

func printEvent(w io.Writer, e *store.LLMEventRecord, asYAML bool) {
	field := func(name, format string, args ...any) {
		fmt.Fprintf(w, "%-10s "+format+"\n", append([]any{name + ":"}, args...)...)
	}
	field("ID", "%d (seq %d)", e.ID, e.Sequence)
	field("Time", "%s", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	field("Provider", "%s", e.Provider)
	field("Model", "%s", e.Model)
	field("Purpose", "%s", e.Purpose)
	field("Tokens", "%d in / %d out", e.InputTokens, e.OutputTokens)
	field("Latency", "%dms", e.LatencyMs)
	if e.Success {
		color.New(color.FgGreen).Fprintln(w, "Success:   true")
	} else {
		color.New(color.FgRed).Fprintln(w, "Success:   false")
		field("Error", "%s", e.ErrorMessage)
	}

	for _, part := range [][2]string{{"REQUEST", e.RequestBody}, {"RESPONSE", e.ResponseBody}} {
		fmt.Fprintln(w)
		rule(w, 60)
		fmt.Fprintln(w, part[0])
		rule(w, 60)
		fmt.Fprintln(w, renderBody(part[1], asYAML))
	}
}

func printPurposeUsage(w io.Writer, rows []store.UsageRow) {
	const line = "%-16s  %6v  %10v  %10v  %10v  %8v\n"
	fmt.Fprintln(w, "Usage by purpose")
	rule(w, 72)
	fmt.Fprintf(w, line, "Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
	rule(w, 72)
	var total store.UsageRow
	for _, r := range rows {
		fmt.Fprintf(w, line, r.Key, r.Calls, r.InputTokens, r.OutputTokens, r.InputTokens+r.OutputTokens, r.AvgLatencyMs)
		total.Calls += r.Calls
		total.InputTokens += r.InputTokens
		total.OutputTokens += r.OutputTokens
	}
	rule(w, 72)
	fmt.Fprintf(w, line, "TOTAL", total.Calls, total.InputTokens, total.OutputTokens, total.InputTokens+total.OutputTokens, "")
}

// printModelCost prices each model from the built-in table. Models with
// no known price are listed with "?" and make the total partial.
func printModelCost(w io.Writer, rows []store.UsageRow) {
	const line = "%-32s  %6v  %10v  %10v  %10s\n"
	fmt.Fprintln(w, "Estimated cost (USD)")
	rule(w, 72)
	fmt.Fprintf(w, line, "Model", "Calls", "Input", "Output", "Cost")
	rule(w, 72)

	var sum float64
	var unpriced []string
	for _, r := range rows {
		price := "?"
		if c := llm.LookupCost(r.Key); c != nil {
			usd := c.Cost(r.InputTokens, r.OutputTokens)
			sum += usd
			price = formatCost(usd)
		} else {
			unpriced = append(unpriced, r.Key)
		}
		fmt.Fprintf(w, line, truncate(r.Key, 32), r.Calls, r.InputTokens, r.OutputTokens, price)
	}
	rule(w, 72)

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, line, label, "", "", "", formatCost(sum))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo price known for: %s\n", strings.Join(unpriced, ", "))
	}
}

// renderBody prints a stored body. JSON is indented, or converted to YAML
// when asked; anything else is printed as stored.
func renderBody(body string, asYAML bool) string {
	if body == "" {
		return "(not captured)"
	}
	if !gjson.Valid(body) {
		return body
	}
	if !asYAML {
		return strings.TrimRight(gjson.Get(body, "@pretty").Raw, "\n")
	}
	var sb strings.Builder
	if err := json2yaml.Convert(&sb, strings.NewReader(body)); err != nil {
		return body
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
