package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sheetops/adapters/csvfile"
	"sheetops/api"
	"sheetops/app"
	"sheetops/internal/seed"
	"sheetops/models"
)

func newExecCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec [envelope-json]",
		Short: "Process one operation envelope against the table",
		Long: `Process a single JSON operation envelope against the configured table.

The envelope is taken from the argument, or read from stdin when no argument
is given. The feedback line is printed to stdout, and the command exits
non-zero when the operation earns reward -1.

Example: sheetops exec '{"name": "read_header_row"}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := envelopeInput(args)
			if err != nil {
				return err
			}

			store, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			dispatcher := app.NewCommandDispatcher(store, opts.observer())

			reward, feedback := dispatcher.Process(cmd.Context(), payload)
			fmt.Fprintln(cmd.OutOrStdout(), feedback)
			if reward != app.RewardSuccess {
				return fmt.Errorf("operation failed with reward %d", reward)
			}
			return nil
		},
	}
}

// envelopeInput returns the envelope bytes from the argument or stdin.
func envelopeInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read envelope from stdin: %w", err)
	}
	return data, nil
}

func newPlaygroundCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "playground",
		Short: "Interactive envelope loop against the configured table",
		Long: `Start an interactive loop that reads one JSON envelope per line, executes
it against the configured table, and prints the reward and feedback. Blank
lines are skipped; "exit" or "quit" ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			dispatcher := app.NewCommandDispatcher(store, opts.observer())
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Table: %s (sheet %s)\n", store.Path(), store.Name())
			fmt.Fprintln(out, `Enter one JSON envelope per line, e.g. {"name": "read_header_row"}. "exit" quits.`)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}
				reward, feedback := dispatcher.Process(cmd.Context(), []byte(line))
				fmt.Fprintf(out, "reward=%+d  %s\n", reward, feedback)
			}
			return scanner.Err()
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP command intake",
		Long: `Start the HTTP server exposing the command intake endpoint and read-only
table snapshots. Every command posted to /api/commands is executed against
the configured table and answered with its reward and feedback.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			dispatcher := app.NewCommandDispatcher(store, opts.observer())

			log.Printf("[CLI] Serving table %s (sheet %s)", store.Path(), store.Name())
			return api.NewApp(dispatcher).Start(api.Config{Port: port})
		},
	}

	cmd.Flags().StringVar(&port, "port", opts.cfg.Server.Port, "HTTP listen port")
	return cmd
}

func newScenariosCmd(opts *options) *cobra.Command {
	var concurrency int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "scenarios [dir]",
		Short: "Run scenario suites and report aggregate results",
		Long: `Run every *.json scenario suite in the directory (default SCENARIO_DIR).
Each suite executes against its own temporary table so suites can run in
parallel without interfering with each other or with the configured table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.cfg.Scenario.Dir
			if len(args) == 1 {
				dir = args[0]
			}

			suites, err := app.LoadSuites(dir)
			if err != nil {
				return err
			}

			scratch, err := os.MkdirTemp("", "sheetops-scenarios-")
			if err != nil {
				return fmt.Errorf("failed to create scratch directory: %w", err)
			}
			defer os.RemoveAll(scratch)

			factory := func(ctx context.Context, suite string) (*app.TableStore, error) {
				path := filepath.Join(scratch, fmt.Sprintf("%s-%s.csv", suite, uuid.NewString()))
				return app.NewTableStore(ctx, csvfile.NewCodec(path), opts.sheet(), nil)
			}

			runner := app.NewScenarioRunner(factory, opts.observer(), concurrency)
			report, err := runner.RunAll(cmd.Context(), suites)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				fmt.Fprintln(out, string(data))
			} else {
				printScenarioReport(out, report)
			}

			if !report.Ok() {
				return errors.New("scenario run failed")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", opts.cfg.Scenario.Concurrency, "maximum suites running at once")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full report as JSON")
	return cmd
}

func printScenarioReport(out io.Writer, report models.ScenarioReport) {
	fmt.Fprintf(out, "\n=== SCENARIO RESULTS ===\n")
	fmt.Fprintf(out, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(out, "Suites: %d\n", len(report.Suites))
	fmt.Fprintf(out, "Steps: %d (passed %d, failed %d)\n", report.TotalSteps, report.PassedSteps, report.FailedSteps)
	fmt.Fprintf(out, "Success Rate: %.1f%%\n", report.SuccessRate*100)
	fmt.Fprintf(out, "Latency: mean %.2fms, median %.2fms, p95 %.2fms\n",
		report.Latency.MeanMs, report.Latency.MedianMs, report.Latency.P95Ms)

	for _, suite := range report.Suites {
		if suite.Error != "" {
			fmt.Fprintf(out, "\n❌ %s: setup failed: %s\n", suite.Suite, suite.Error)
			continue
		}
		marker := "✅"
		if suite.Failed > 0 {
			marker = "❌"
		}
		fmt.Fprintf(out, "\n%s %s: %d/%d passed (%.2fms)\n", marker, suite.Suite, suite.Passed, len(suite.Steps), suite.Duration)
		for _, step := range suite.Steps {
			if step.Passed {
				continue
			}
			label := step.Label
			if label == "" {
				label = fmt.Sprintf("step %d", step.Index+1)
			}
			fmt.Fprintf(out, "   %s: reward %+d, %s\n", label, step.Reward, step.Feedback)
		}
	}
}

func newSeedCmd(opts *options) *cobra.Command {
	genCfg := seed.DefaultConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a deterministic sample project-tracking table",
		Long: `Generate a sample project-tracking table with a header row and randomized
but seed-deterministic project rows, then persist it to the output file.
An existing file at the output path is overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if path == "" {
				path = opts.tablePath()
			}
			codec := codecFor(path, opts.sheet())

			table, err := seed.Write(cmd.Context(), codec, genCfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample table written to %s (%d rows by %d columns)\n",
				path, table.MaxRow(), table.MaxCol())
			return nil
		},
	}

	cmd.Flags().IntVar(&genCfg.Rows, "rows", genCfg.Rows, "number of project rows to generate")
	cmd.Flags().Int64Var(&genCfg.Seed, "seed", genCfg.Seed, "random seed for deterministic generation")
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to the configured table file)")
	return cmd
}
