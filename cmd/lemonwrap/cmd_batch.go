package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dhamidi/lemonwrap/format"
	"github.com/dhamidi/lemonwrap/grammar"
	"github.com/dhamidi/lemonwrap/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBatchCmd(a *app) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "batch <glob>...",
		Short: "Parse every file matching the given patterns",
		Long: `batch expands each pattern (** matches across directories), parses the
matching files concurrently and prints one report per file in order.

Parse errors are reported per file and do not stop the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %v", args)
			}

			outputs := make([]bytes.Buffer, len(files))
			failed := make([]bool, len(files))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, path := range files {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					enc, err := format.New(a.format, &outputs[i])
					if err != nil {
						return err
					}
					err = parseFile(enc, a, path)
					var perr *grammar.ParseError
					if errors.As(err, &perr) {
						failed[i] = true
						return enc.Encode(&format.Report{Source: path, Err: err})
					}
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return checkFatal(cmd.ErrOrStderr(), err)
			}

			out := cmd.OutOrStdout()
			nfailed := 0
			for i, path := range files {
				if failed[i] {
					nfailed++
				}
				fmt.Fprintf(out, "==> %s <==\n", path)
				if _, err := outputs[i].WriteTo(out); err != nil {
					return err
				}
			}
			if nfailed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", nfailed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files parsed at once")

	return cmd
}

func parseFile(enc format.Encoder, a *app, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return pipeline.Process(enc, a.parser, a.alloc, path, f)
}

// expandPatterns returns the files matched by patterns, each pattern's
// matches sorted, without duplicates.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}
