package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/cmd/pagepatch/opts"
	"github.com/walteh/pagepatch/pkg/config"
	"github.com/walteh/pagepatch/pkg/recipe"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "status [<recipe>...]",
		Short: "Report what a run would change",
		Long: `Status checks every step against the files without writing anything.
It will:
1. Build the plan from the named recipes, or load --config
2. Read every target once
3. Report patched, applied, unchanged, missing or failed per file

Failed preconditions are reported, not returned, so status exits 0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				plan *config.Plan
				err  error
			)
			if len(args) > 0 {
				if cmd.Flag("config").Changed {
					return errors.New("use either recipe names or --config, not both")
				}
				plan, err = recipe.Plan(o.BaseDir(), args...)
				if err != nil {
					return errors.Errorf("building plan: %w", err)
				}
			} else {
				plan, err = loadPlan(cmd, o, configFile)
				if err != nil {
					return err
				}
			}
			return checkPlan(cmd.Context(), o, plan)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", DefaultConfigFile, "plan file path")

	return cmd
}
