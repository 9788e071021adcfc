package main

import (
	"github.com/dhamidi/lemonwrap/format"
	"github.com/dhamidi/lemonwrap/pipeline"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "lemonwrap",
		Short: "Read a program from stdin and print the grammar engine's result",
		Long: `lemonwrap reads all of standard input, hands it to the configured
grammar engine and prints the engine's output after a RESULT: line.`,
		Args:         cobra.NoArgs,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(a.format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			err = pipeline.Process(enc, a.parser, a.alloc, "", cmd.InOrStdin())
			return checkFatal(cmd.ErrOrStderr(), err)
		},
	}
	a.bindFlags(rootCmd)

	rootCmd.AddCommand(newEvalCmd(a))
	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newGrammarCmd())

	return rootCmd
}
