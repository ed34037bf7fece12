package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/md2json/internal/convert"
)

// Set at build time with -ldflags.
var version = "dev"

const usageExample = `
Usage:

  md2json --md credentials.md | jq '."Networking Management"."tables"."Machines"'

`

type rootOptions struct {
	markdown string
	debug    bool
	noEscape bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "md2json --md <path> [--debug]",
		Short: "Markdown 2 JSON converter for easy infra docs",
		Long: `md2json converts a structured Markdown document into nested JSON.

Sections are keyed by heading text. "Table: <Caption>" headings name the pipe
table that follows inside the current section, leading "key: value" lines are
emitted under "Metadata", and a heading starting with STOP ends processing.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.markdown == "" {
				if err := cmd.Help(); err != nil {
					return err
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), usageExample)
				return err
			}
			return runConvert(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.markdown, "md", "", "Markdown file to process")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Print PARAGRAPH:/Table: trace lines before the JSON")
	cmd.Flags().BoolVar(&opts.noEscape, "no-escape", false, "Emit inline text without HTML escaping")

	cmd.AddCommand(newServeCmd(), newVersionCmd())
	return cmd
}

func runConvert(stdout, stderr io.Writer, opts rootOptions) error {
	level := slog.LevelWarn
	if opts.debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	copts := convert.DefaultOptions()
	copts.Escape = !opts.noEscape
	copts.Logger = log
	if opts.debug {
		copts.Trace = stdout
	}

	tree, err := convert.ConvertFile(opts.markdown, copts)
	if err != nil {
		return err
	}
	return convert.Encode(stdout, tree)
}
