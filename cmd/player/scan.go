package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmateos82/tunecase/internal/domain"
	"github.com/dmateos82/tunecase/internal/gateway"
	"github.com/dmateos82/tunecase/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the library folders and push the catalog to the gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := scanLibrary(cmd.Context(), true)
		if err != nil {
			if errors.Is(err, scanner.ErrNoMusic) {
				fmt.Println("No music found in the library folders.")
				return nil
			}
			return err
		}
		fmt.Printf("Scanned %d songs in %d folders (%d files skipped).\n",
			len(result.Songs), len(result.Folders), result.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// scanLibrary walks the configured library roots. With push set, every
// discovered song is mirrored to the gateway through the outbox; the scan
// itself never waits on the network.
func scanLibrary(ctx context.Context, push bool) (*scanner.Result, error) {
	index := scanner.NewLibraryIndex(cfg.LibraryRoots)
	sc := scanner.New(index, cfg.ScanPageSize, log)
	sc.Progress = func(msg string) {
		fmt.Println(msg)
	}

	var outbox *gateway.Outbox
	if push {
		client := gateway.NewClient(cfg.GatewayURL, nil)
		outbox = gateway.NewOutbox(log)
		sc.Submit = func(song domain.Song) {
			outbox.Submit(gateway.Task{
				Name: "create song " + song.ID,
				Run: func(ctx context.Context) error {
					_, err := client.CreateSong(ctx, song)
					return err
				},
			})
		}
	}

	result, err := sc.Scan(ctx)
	if outbox != nil {
		outbox.Close()
	}
	if err != nil {
		return nil, err
	}
	if result.Empty() {
		return nil, scanner.ErrNoMusic
	}
	return result, nil
}
