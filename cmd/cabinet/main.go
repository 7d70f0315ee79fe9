// cabinet runs Lua games in the terminal.
//
// Usage:
//
//	cabinet [entry.lua]      - Run a game (default: game.lua in the working directory)
//	cabinet serve [entry]    - Host the game for one SSH session
//	cabinet api              - List the script API namespaces
//	cabinet runs             - Browse recent runs and their script errors
//	cabinet errors           - Show recent script errors
//
// Global flags:
//
//	--config <path>  - Engine config YAML (default: search ~/.cabinet/configs, ./configs)
//	--fps <rate>     - Override the tick rate before init() runs
//	--scale <n>      - Override the display scale before init() runs
//	--headless       - Run without a terminal display
//	--mute           - Disable audio output
//	--watch          - Reload when game sources change
//	--db <path>      - Journal database path (default: ~/.cabinet/journal.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagScale    int
	flagHeadless bool
	flagMute     bool
	flagWatch    bool
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cabinet [entry.lua]",
	Short: "Cabinet - run Lua games in your terminal",
	Long: `Cabinet is a script-driven game runtime for the terminal. A game is a set
of Lua modules; the entry module fills in hooks on the game table:

  game.init(config)        - adjust title, width, height, scale, fps
  game.load()              - load images, music and sounds
  game.update(time, delta) - advance the simulation
  game.render(time)        - draw the frame

Available commands:
  serve    - Host the game for one SSH session
  api      - List script API namespaces
  runs     - Browse recent runs
  errors   - Show recent script errors

Examples:
  cabinet games/pong/pong.lua
  cabinet --watch --scale 2 demo/pong/game.lua
  cabinet --headless --mute game.lua
  cabinet serve demo/pong/game.lua`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGame,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate before init() (0 = from config)")
	rootCmd.PersistentFlags().IntVar(&flagScale, "scale", 0, "Display scale before init() (0 = from config)")
	rootCmd.PersistentFlags().BoolVar(&flagHeadless, "headless", false, "Run without a terminal display")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable audio output")
	rootCmd.PersistentFlags().BoolVar(&flagWatch, "watch", false, "Reload when game sources change")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to journal database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(errorsCmd)
}
