package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "chainz",
		Short: "Run a pipeline defined in a JSON file from the command line",
		Long: `chainz resolves the step names listed in a JSON config file into a
pipeline, validates it, and runs it with step-by-step progress output.

The config file must be a JSON object with a "PIPELINE" list of step
names, an optional "DATA" value, and an optional "VALIDATORS" list.
Use the list command to see the step names available.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation shows usage; with a config the root acts
			// as the run command.
			if resolveConfigPath() == "" {
				return cmd.Help()
			}
			return runPipeline(cmd, args)
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"May also be passed with the environment variable CHAINZ_CONFIG")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "",
		"Filepath where output should be directed. Directed to stdout if omitted.")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"During run, only validate that the pipeline is runnable.")

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(drawCmd)
}
