package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cabinet/internal/platform/tui"
	"github.com/vovakirdan/tui-cabinet/internal/storage"
)

var (
	flagRunsLimit   int
	flagErrorsLimit int
	flagPlain       bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse recent runs and their script errors",
	Long: `Opens an interactive list of recent runs. Selecting a run shows the
script errors that froze it. Without a terminal, or with --plain, the runs
are printed instead.

Examples:
  cabinet runs
  cabinet runs --limit 50
  cabinet runs --plain`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show recent script errors",
	Long: `Prints the most recent script errors recorded in the journal, newest first.

Examples:
  cabinet errors
  cabinet errors --limit 5`,
	Args: cobra.NoArgs,
	Run:  runErrors,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of browsing")
	errorsCmd.Flags().IntVar(&flagErrorsLimit, "limit", 10, "Number of errors to show")
}

// openStore opens the journal for reading.
func openStore(cmd *cobra.Command) *storage.Store {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runRuns(cmd *cobra.Command, _ []string) {
	store := openStore(cmd)
	defer store.Close()

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24 // Defaults
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if err := tui.RunJournal(store, flagRunsLimit, width, height); err != nil {
			log.Error("journal browser failed", "error", err)
		}
		return
	}

	runs, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Println("Recent runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	// Print header
	fmt.Printf("  %-36s  %-12s  %-16s  %-6s  %s\n", "ID", "Entry", "Started", "Exit", "Errors")
	fmt.Printf("  %-36s  %-12s  %-16s  %-6s  %s\n", "--", "-----", "-------", "----", "------")

	for _, r := range runs {
		exit := "-"
		if r.Ended {
			exit = fmt.Sprintf("%d", r.ExitCode)
		}
		fmt.Printf("  %-36s  %-12s  %-16s  %-6s  %d\n",
			r.ID, r.Entry, r.StartedAt.Local().Format("2006-01-02 15:04"), exit, r.Errors)
	}
}

func runErrors(cmd *cobra.Command, _ []string) {
	store := openStore(cmd)
	defer store.Close()

	errs, err := store.RecentErrors(flagErrorsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving script errors: %v\n", err)
		return
	}

	if len(errs) == 0 {
		fmt.Println("No script errors recorded.")
		return
	}

	for _, e := range errs {
		fmt.Printf("%s  %s:%d  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.File, e.Line, e.Message)
		if e.Source != "" {
			fmt.Printf("    %s\n", e.Source)
		}
	}
}
