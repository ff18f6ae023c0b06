package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/numtap/internal/registry"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List audio backends",
	Long:  `Shows the audio backends cues can be played through.`,
	Args:  cobra.NoArgs,
	Run:   runBackends,
}

func runBackends(_ *cobra.Command, _ []string) {
	backends := registry.List()

	if len(backends) == 0 {
		fmt.Println("No audio backends available.")
		return
	}

	fmt.Println("Available audio backends:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := len("Name")
	for _, b := range backends {
		maxNameLen = max(maxNameLen, len(b.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, b := range backends {
		fmt.Printf("  %-*s  %s\n", maxNameLen, b.Name, b.Description)
	}

	fmt.Println()
	fmt.Println("Pick one with 'numtap --audio <name>' or NUMTAP_AUDIO.")
}
