package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/numtap/internal/audio"
	"github.com/vovakirdan/numtap/internal/platform/tui"
	"github.com/vovakirdan/numtap/internal/registry"
	"github.com/vovakirdan/numtap/internal/storage"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  1-8            - Tap a number (or click it)
  Enter/Space/R  - Start or restart (or click the control)
  Tab            - Best times
  Ctrl+S         - Save a screenshot
  ?              - More help
  Q/Ctrl+C       - Quit

Examples:
  numtap play
  numtap play --audio log --log-level debug
  numtap play --config ./my-numtap.yaml
  numtap play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPlayer, "player", "", "Name recorded with your times (default: $USER)")
}

func runPlay(cmd *cobra.Command, _ []string) {
	if err := play(cmd); err != nil {
		fail("%v", err)
	}
}

func play(cmd *cobra.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// Logs go to a file while the TUI owns the terminal
	var logOut io.Writer = io.Discard
	if f, logErr := openLogFile(); logErr == nil {
		defer f.Close()
		logOut = f
	} else {
		log.Warn("logging disabled", "error", logErr)
	}
	logger := newLogger(logOut, s.logLevel, "numtap")

	// Get terminal size for the first layout
	s.runtime.ScreenW, s.runtime.ScreenH = 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		s.runtime.ScreenW = w
		s.runtime.ScreenH = h
	}

	// Open times storage
	store, err := storage.Open(s.dbPath)
	if err != nil {
		log.Warn("could not open times database", "error", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	player := flagPlayer
	if player == "" {
		player = os.Getenv("USER")
	}

	backend, err := registry.Create(s.game.Audio.Backend, registry.Env{Out: os.Stdout, Logger: logger})
	if err != nil {
		return err
	}

	opts := []audio.Option{
		audio.WithQueueSize(s.game.Audio.QueueSize),
		audio.WithLogger(logger),
	}
	return audio.With(backend, func(engine *audio.Engine) error {
		logger.Info("starting", "audio", engine.Backend(), "player", player, "db", s.dbPath)

		return tui.Run(tui.Options{
			Config:        s.game,
			Runtime:       s.runtime,
			Audio:         engine,
			Cues:          engine.LoadCueSet(s.game.Cues.Ready, s.game.Cues.Notes),
			Store:         store,
			Logger:        logger,
			Player:        player,
			ScreenshotDir: screenshotDir(),
		})
	}, opts...)
}

// screenshotDir returns ~/.numtap/screenshots, or "" without a home directory.
func screenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".numtap", "screenshots")
}
