package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "dude [config]",
		Short: "Dude, where's my snapshots?",
		Long: "dude checks that today's expected Elasticsearch snapshots exist on every configured cluster " +
			"and reports one status per cluster to the configured notifiers.",
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}
	cmd.SetVersionTemplate("dude {{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&opts.date, "date", "", "Check snapshots for this date (YYYY-MM-DD) instead of today")
	f.BoolVarP(&opts.debug, "debug", "d", false, "Debug logging; print results to the console only")
	f.BoolVar(&opts.stdout, "stdout", false, "Print results to the console only, skipping configured notifiers")
	f.BoolVar(&opts.json, "json", false, "Print the full run report as JSON")
	f.BoolVar(&opts.details, "details", false, "Print the per-repository breakdown")
	f.StringVar(&opts.failOn, "fail-on", "", "Exit 1 when any cluster is at or above this status (e.g. MISSING)")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $LOG_LEVEL or info")
	pf.StringVar(&opts.logFormat, "log-format", "console", "Log format: console or json")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newPatternsCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show dude version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dude %s (%s)\n", version, commit)
			return nil
		},
	}
}
