package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelgym/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available environments",
	Long:  `Shows a list of all environments registered in the binary.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	titles := registry.List()

	if len(titles) == 0 {
		fmt.Println("No environments available.")
		return
	}

	fmt.Println("Available environments:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, t := range titles {
		if len(t.Name) > maxNameLen {
			maxNameLen = len(t.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, t := range titles {
		fmt.Printf("  %-*s  %s\n", maxNameLen, t.Name, t.Description)
	}

	fmt.Println()
	fmt.Println("Run 'pixelgym watch <name>' to drive one interactively.")
}
