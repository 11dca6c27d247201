package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/chainz/export"
	"github.com/zoobzio/chainz/runner"
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Render the configured pipeline as Graphviz DOT",
	Long: `Resolve the config's PIPELINE entries and write the resulting chain
as a Graphviz digraph, to stdout or to the file given with -o. Pipe the
output through dot to produce an image:

  chainz draw -c config.json | dot -Tsvg -o pipeline.svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		if path == "" {
			return errors.New("missing option -c/--config (may also be passed with the environment variable CHAINZ_CONFIG)")
		}

		cfg, err := runner.Load(path)
		if err != nil {
			if errors.Is(err, runner.ErrBadJSON) {
				return fmt.Errorf("The config file %s could not be read as JSON. "+
					"Check for missing commas or use a online JSON validator.", path)
			}
			return err
		}

		chain, err := runner.New(registry).Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return export.DOT(w, chain)
	},
}
