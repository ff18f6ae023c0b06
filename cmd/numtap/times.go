package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/numtap/internal/platform/tui"
	"github.com/vovakirdan/numtap/internal/storage"
)

var (
	flagTimesLimit  int
	flagTimesPlayer string
	flagTimesClear  bool
)

var timesCmd = &cobra.Command{
	Use:   "times",
	Short: "Show the best times",
	Long: `Display the fastest recorded times.

Examples:
  numtap times
  numtap times --limit 20
  numtap times --player alice
  numtap times --clear`,
	Args: cobra.NoArgs,
	Run:  runTimes,
}

func init() {
	timesCmd.Flags().IntVar(&flagTimesLimit, "limit", 10, "Number of times to show")
	timesCmd.Flags().StringVar(&flagTimesPlayer, "player", "", "Only show times of this player")
	timesCmd.Flags().BoolVar(&flagTimesClear, "clear", false, "Delete all recorded times")
}

func runTimes(cmd *cobra.Command, _ []string) {
	s, err := loadSettings(cmd)
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(s.dbPath)
	if err != nil {
		fail("opening times database: %v", err)
	}
	defer store.Close()

	if err := printTimes(store); err != nil {
		store.Close()
		fail("%v", err)
	}
}

func printTimes(store *storage.Store) error {
	if flagTimesClear {
		if err := store.ClearTimes(tui.GameID); err != nil {
			return err
		}
		fmt.Println("All times deleted.")
		return nil
	}

	var (
		entries []storage.TimeEntry
		err     error
	)
	if flagTimesPlayer != "" {
		entries, err = store.PlayerTimes(tui.GameID, flagTimesPlayer, flagTimesLimit)
	} else {
		entries, err = store.BestTimes(tui.GameID, flagTimesLimit)
	}
	if err != nil {
		return err
	}

	title := "Best Times"
	if flagTimesPlayer != "" {
		title = fmt.Sprintf("Best Times - %s", flagTimesPlayer)
	}
	fmt.Println(title)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No times recorded yet.")
		fmt.Println()
		fmt.Println("Play 'numtap' to set the first one!")
		return nil
	}

	// Calculate column widths
	maxPlayerLen := len("Player")
	for _, e := range entries {
		maxPlayerLen = max(maxPlayerLen, len(e.Player))
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-*s  %s\n", "Rank", "Time", maxPlayerLen, "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-*s  %s\n", "----", "----", maxPlayerLen, "------", "----")

	for i, e := range entries {
		fmt.Printf("  %-4d  %-8s  %-*s  %s\n",
			i+1,
			fmt.Sprintf("%.2f s", e.Elapsed.Seconds()),
			maxPlayerLen, e.Player,
			e.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	stats, err := store.Stats(tui.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load stats: %v\n", err)
		return nil
	}
	fmt.Println()
	fmt.Printf("Runs: %d  Best: %.2f s  Average: %.2f s\n",
		stats.Runs, stats.Best.Seconds(), stats.Average.Seconds())
	return nil
}
