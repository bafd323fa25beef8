package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/battleroid/dwms/internal/adapters/outbound/config"
	"github.com/battleroid/dwms/internal/adapters/outbound/tui"
	"github.com/battleroid/dwms/internal/application"
	"github.com/battleroid/dwms/internal/domain/patterns"
	"github.com/battleroid/dwms/internal/log"
)

func newPatternsCmd(opts *runOptions) *cobra.Command {
	var (
		date       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "patterns [config]",
		Short: "Show the snapshot names expected for a date",
		Long:  "Expand every repository pattern against a date without contacting any cluster.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.setupLogging(cmd)

			day, err := (&runOptions{date: date}).resolveDate()
			if err != nil {
				return err
			}
			cfg, err := config.New().Load(configPath(args))
			if err != nil {
				return err
			}

			exps, err := application.NewCheckService(nil, log.WithComponent("check")).Expectations(cfg, day)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(exps)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.NewRenderer(cmd.OutOrStdout()).RenderPatterns(day.Format(patterns.DateLayout), exps))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Expand for this date (YYYY-MM-DD) instead of today")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
