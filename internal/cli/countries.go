package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewCmdCountries() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the supported country codes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCountries(cmd.OutOrStdout())
		},
	}
}

func printCountries(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tDIAL\tNAME")
	for _, c := range core.Countries() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", color.CyanString(c.Code), c.Dial, c.Name)
	}
	return w.Flush()
}
