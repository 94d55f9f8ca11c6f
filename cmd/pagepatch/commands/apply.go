package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/cmd/pagepatch/opts"
	"github.com/walteh/pagepatch/pkg/config"
)

// DefaultConfigFile is the plan file apply and status look for
const DefaultConfigFile = ".pagepatch.hcl"

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		configFile string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the steps of a plan file",
		Long: `Apply loads a plan file (.hcl, .yaml, .yml or .json) and runs its steps
in order. Targets resolve against the plan's base_dir, or --dir when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(cmd, o, configFile)
			if err != nil {
				return err
			}
			return runPlan(cmd.Context(), o, plan, dryRun)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", DefaultConfigFile, "plan file path")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would change without writing")

	return cmd
}

// loadPlan loads a plan file, letting an explicit --dir override base_dir
func loadPlan(cmd *cobra.Command, o *opts.RootOpts, configFile string) (*config.Plan, error) {
	plan, err := config.Load(cmd.Context(), configFile)
	if err != nil {
		return nil, errors.Errorf("loading plan: %w", err)
	}
	if f := cmd.Flag("dir"); f != nil && f.Changed {
		plan.BaseDir = o.BaseDir()
	}
	o.UserLogger.LogStateChange(fmt.Sprintf("loaded %s from %s", plan.String(), plan.Location()))
	return plan, nil
}
