package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered pipeline steps",
	Long:  "Display the names a config's PIPELINE and VALIDATORS lists can reference, with their type labels.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Registered steps:")
		fmt.Println()
		for _, name := range registry.Names() {
			c, err := registry.Resolve(name)
			if err != nil {
				continue
			}
			step := c.Step()
			fmt.Printf("  %-14s %s -> %s\n", name, step.InputLabel(), step.OutputLabel())
		}
	},
}
