package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmateos82/tunecase/internal/localstate"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played songs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := localstate.Open(cfg.StatePath)
		if err != nil {
			return err
		}
		defer state.Close()

		entries, err := state.History()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No plays recorded yet.")
			return nil
		}
		for _, e := range entries {
			title, artist := e.SongID, ""
			if e.Song != nil {
				title, artist = e.Song.Title, e.Song.Artist
			}
			if artist != "" {
				fmt.Printf("%s  %s - %s\n", e.PlayedDate.Local().Format("2006-01-02 15:04"), artist, title)
			} else {
				fmt.Printf("%s  %s\n", e.PlayedDate.Local().Format("2006-01-02 15:04"), title)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
