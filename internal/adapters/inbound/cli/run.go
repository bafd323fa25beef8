package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/battleroid/dwms/internal/adapters/outbound/config"
	"github.com/battleroid/dwms/internal/adapters/outbound/elasticsearch"
	"github.com/battleroid/dwms/internal/adapters/outbound/gitinfo"
	"github.com/battleroid/dwms/internal/adapters/outbound/sink"
	"github.com/battleroid/dwms/internal/adapters/outbound/tui"
	"github.com/battleroid/dwms/internal/application"
	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/patterns"
	"github.com/battleroid/dwms/internal/log"
)

type runOptions struct {
	date      string
	debug     bool
	stdout    bool
	json      bool
	details   bool
	failOn    string
	logLevel  string
	logFormat string
}

// setupLogging points the global logger at the command's stderr.
func (o *runOptions) setupLogging(cmd *cobra.Command) {
	level := o.logLevel
	if o.debug {
		level = "debug"
	}
	log.Configure(log.Config{
		Level:  level,
		Format: o.logFormat,
		Output: cmd.ErrOrStderr(),
	})
}

// resolveDate returns the --date override, or today in local time.
func (o *runOptions) resolveDate() (time.Time, error) {
	if o.date == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return patterns.ParseDate(o.date)
}

func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultPath
}

func runCheck(cmd *cobra.Command, args []string, opts *runOptions) error {
	opts.setupLogging(cmd)
	logger := log.WithComponent("cli")

	var failOn domain.Status
	if opts.failOn != "" {
		s, err := domain.ParseStatus(opts.failOn)
		if err != nil {
			return &domain.ConfigError{Field: "--fail-on", Err: err}
		}
		failOn = s
	}

	date, err := opts.resolveDate()
	if err != nil {
		return err
	}

	path := configPath(args)
	cfg, err := config.New().Load(path)
	if err != nil {
		return err
	}

	checker := application.NewCheckService(elasticsearch.NewFactory(), log.WithComponent("check"))
	report, err := checker.Run(cmd.Context(), cfg, date)
	if err != nil {
		return err
	}

	if rev, err := gitinfo.New().Revision(path); err != nil {
		logger.Debug().Err(err).Msg("config revision unavailable")
	} else {
		report.Revision = rev
	}

	console := sink.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())
	var sinks []domain.Sink
	if opts.debug || opts.stdout {
		sinks = []domain.Sink{console}
	} else {
		sinks = sink.FromConfig(cfg.Notifiers, cmd.OutOrStdout(), cmd.ErrOrStderr(), log.WithComponent("notify"))
	}
	notifier := application.NewNotifyService(sinks, console, log.WithComponent("notify"))
	if errs := notifier.Dispatch(cmd.Context(), *report); len(errs) > 0 {
		logger.Warn().Int("failed_sinks", len(errs)).Msg("some notifiers failed")
	}

	if opts.details {
		fmt.Fprint(cmd.OutOrStdout(), tui.NewRenderer(cmd.OutOrStdout()).RenderReport(*report))
	}
	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	}

	if opts.failOn != "" && report.Worst() >= failOn {
		return fmt.Errorf("worst status %s is at or above %s", report.Worst().Name(), failOn.Name())
	}
	return nil
}
