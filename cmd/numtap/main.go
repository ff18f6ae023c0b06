// numtap is a reflex game for the terminal: tap the numbers 1 to 8 in
// ascending order as fast as you can.
//
// Usage:
//
//	numtap                   - Play (same as numtap play)
//	numtap play              - Play in this terminal
//	numtap serve             - Start SSH server for remote play
//	numtap times             - Show the best times
//	numtap backends          - List audio backends
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible shuffles
//	--db <path>          - Set database path (default: ~/.numtap/times.db)
//	--config <path>      - Use a custom numtap.yaml
//	--audio <backend>    - Pick the audio backend
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagAudio    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "numtap",
	Short: "numtap - Tap 1 to 8 in order, against the clock",
	Long: `numtap shows eight shuffled number buttons. Tap them in ascending
order; each correct tap plays a note and the timer stops on 8.

Available commands:
  play      - Play in this terminal (default)
  serve     - Start SSH server for remote play
  times     - Show the best times
  backends  - List audio backends

Examples:
  numtap
  numtap play --audio silent
  numtap serve --ssh :2222
  numtap times --player alice`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to times database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom numtap.yaml")
	rootCmd.PersistentFlags().StringVar(&flagAudio, "audio", "", "Audio backend (see 'numtap backends')")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Bare numtap plays, so it takes the play flags too
	addPlayFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(backendsCmd)
}
