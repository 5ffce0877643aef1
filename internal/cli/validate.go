package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ValidateOptions struct {
	Record core.Record
	JSON   bool

	out io.Writer
}

func DefaultValidateOptions() *ValidateOptions {
	return &ValidateOptions{}
}

func NewCmdValidate() *cobra.Command {
	o := DefaultValidateOptions()
	cmd := &cobra.Command{
		Use:   "validate [flags]",
		Short: "Validate one record and print its field errors.",
		Long: `Validate runs the same checks as the registration form.

The exit status is 1 when the record is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.out = cmd.OutOrStdout()
			return o.Run(cmd.Context())
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ValidateOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.Record.Name, "name", "", "Name (letters and spaces)")
	fs.StringVar(&o.Record.Address, "address", "", "Address (at least 10 characters)")
	fs.StringVar(&o.Record.CountryCode, "country", "", "Country code, see 'regcheck countries'")
	fs.StringVar(&o.Record.MobileNumber, "mobile", "", "Mobile number (at least 10 digits)")
	fs.StringVar(&o.Record.Age, "age", "", "Age (18 or older)")
	fs.BoolVar(&o.JSON, "json", false, "Print the result as JSON")
}

// Run validates the record. It returns an error wrapping core.ErrValidation
// when the record is invalid.
func (o *ValidateOptions) Run(ctx context.Context) error {
	errs := core.Validate(o.Record)

	if o.JSON {
		if errs == nil {
			errs = core.ErrorMap{}
		}
		enc := json.NewEncoder(o.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Valid  bool          `json:"valid"`
			Errors core.ErrorMap `json:"errors"`
		}{errs.Valid(), errs}); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return errs.Err()
	}

	if errs.Valid() {
		fmt.Fprintln(o.out, color.GreenString("valid"))
		return nil
	}
	for _, field := range errs.Fields() {
		fmt.Fprintf(o.out, "%s: %s\n", field, color.RedString(errs.Get(field)))
	}
	return errs.Err()
}
