package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/walteh/pagepatch/cmd/pagepatch/opts"
	"github.com/walteh/pagepatch/pkg/recipe"
)

// NewRecipesCmd creates a new recipes command
func NewRecipesCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List the built-in recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range recipe.Names() {
				step, err := recipe.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(o.Stdout, "%s %s\n    %s\n",
					color.New(color.Bold).Sprintf("%-24s", name),
					color.New(color.FgYellow).Sprint(step.Kind),
					color.New(color.Faint).Sprint(recipe.Describe(name)))
			}
			return nil
		},
	}
}
