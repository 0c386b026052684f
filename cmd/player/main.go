// Command player is the on-device player CLI: it scans the library,
// filters it by folder selection and drives playback, pushing writes to
// the persistence gateway in the background.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmateos82/tunecase/internal/config"
	"github.com/dmateos82/tunecase/internal/logger"
)

var (
	cfg *config.Config
	log *logger.Logger

	flagLibraryRoots []string
	flagGatewayURL   string
	flagStatePath    string
)

var rootCmd = &cobra.Command{
	Use:   "player",
	Short: "Offline music player over a local library",
	Long: `Scans the configured library folders for audio files, lets you pick
which folders are playable and plays them with shuffle, repeat, favorites
and play history. Library writes are forwarded to the persistence gateway
in the background and never block playback.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if len(flagLibraryRoots) > 0 {
			cfg.LibraryRoots = flagLibraryRoots
		}
		if flagGatewayURL != "" {
			cfg.GatewayURL = flagGatewayURL
		}
		if flagStatePath != "" {
			cfg.StatePath = flagStatePath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&flagLibraryRoots, "library", "l", nil, "library root folders (default from LIBRARY_ROOTS)")
	rootCmd.PersistentFlags().StringVarP(&flagGatewayURL, "gateway", "g", "", "persistence gateway base URL (default from GATEWAY_URL)")
	rootCmd.PersistentFlags().StringVar(&flagStatePath, "state", "", "local state database path (default from STATE_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
