package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pagepatch/cmd/pagepatch/opts"
	"github.com/walteh/pagepatch/pkg/recipe"
)

// NewRunCmd creates a new run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <recipe>...",
		Short: "Run built-in recipes in order",
		Long: `Run applies one or more built-in recipes to the files under --dir.
Recipes run in the order given. The first failed precondition stops the run,
and files patched before it stay patched.

Use "pagepatch recipes" to list the available recipes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := recipe.Plan(o.BaseDir(), args...)
			if err != nil {
				return errors.Errorf("building plan: %w", err)
			}
			return runPlan(cmd.Context(), o, plan, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would change without writing")

	return cmd
}
