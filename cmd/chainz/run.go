package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/chainz"
	"github.com/zoobzio/chainz/runner"
	"github.com/zoobzio/chainz/sink"
)

var (
	configPath string
	outputPath string
	dryRun     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline described by the config file",
	Long: `Load the config file, resolve its PIPELINE entries into a chain,
validate it, and run it. With --dry-run the pipeline is validated but
not executed.`,
	RunE: runPipeline,
}

// resolveConfigPath returns the config path from the flag, falling back
// to the CHAINZ_CONFIG environment variable.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv("CHAINZ_CONFIG")
}

// outputSink builds the sink run output goes to: the console, or a file
// when -o was given. The cleanup closes the file sink.
func outputSink(path string) (sink.Sink, func(), error) {
	if path == "" {
		return sink.Console(), func() {}, nil
	}
	f, err := sink.File(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func runPipeline(cmd *cobra.Command, _ []string) error {
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

	out, cleanup, err := outputSink(outputPath)
	if err != nil {
		return err
	}
	defer cleanup()
	sink.SetDefault(out)

	banner(out, path)

	r := runner.New(registry, runner.WithSink(out))
	if dryRun {
		err = r.DryRun(cmd.Context(), cfg)
	} else {
		_, err = r.Run(cmd.Context(), cfg)
	}
	if err != nil {
		var validationErr *chainz.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("The pipeline failed to validate for the following reason:\n  %s",
				validationErr.Reason)
		}
		return err
	}
	return nil
}

func banner(out sink.Sink, path string) {
	yellow := sink.Style{Color: sink.Yellow}
	rule := strings.Repeat("=", 32)

	out.Write(rule, yellow)
	out.Write("Loading Pipeline...", yellow)
	out.Write(rule, yellow)
	out.Write("", sink.Style{})
	out.Write("Using config file: "+path, yellow)
	out.Write("", sink.Style{})
	out.Write(rule, yellow)
	out.Write("Running pipeline", yellow)
	out.Write(rule, yellow)
	out.Write("", sink.Style{})
}
