package cmd

import (
	"github.com/spf13/cobra"

	"github.com/amurg-ai/phonebill/internal/wizard"
	"github.com/amurg-ai/phonebill/pkg/cli"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactive setup wizard to generate a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			defaults, _ := cmd.Flags().GetBool("defaults")

			w := wizard.New(&cli.Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()})
			if defaults {
				return w.RunDefaults(output)
			}
			return w.Run(output)
		},
	}
	cmd.Flags().StringP("output", "o", "", "output config file path (default: "+wizard.DefaultOutputPath+")")
	cmd.Flags().Bool("defaults", false, "generate config non-interactively from PORT and PHONEBILL_* env vars")
	return cmd
}
