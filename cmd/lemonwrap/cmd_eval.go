package main

import (
	"fmt"

	"github.com/dhamidi/lemonwrap/ast"
	"github.com/dhamidi/lemonwrap/interp"
	"github.com/dhamidi/lemonwrap/pipeline"
	"github.com/spf13/cobra"
)

func newEvalCmd(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Parse stdin and run the resulting program",
		Long: `eval reads a program from stdin, parses it with the configured engine,
decodes the engine's JSON syntax tree and executes it.

With the echo backend, stdin is expected to already be a JSON syntax tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := pipeline.Parse(a.parser, a.alloc, cmd.InOrStdin())
			if err != nil {
				return checkFatal(cmd.ErrOrStderr(), err)
			}
			program, err := ast.Decode(res.Bytes())
			res.Release()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dump {
				_, err := fmt.Fprintln(out, program)
				return err
			}
			return interp.New(interp.WithOutput(out)).Run(program)
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "print the syntax tree instead of running it")

	return cmd
}
