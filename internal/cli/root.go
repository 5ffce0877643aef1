// Package cli implements the regcheck command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the regcheck command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regcheck [command]",
		Short: "regcheck validates registration records offline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewCmdValidate())
	cmd.AddCommand(NewCmdCountries())
	return cmd
}
