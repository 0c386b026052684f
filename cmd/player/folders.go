package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmateos82/tunecase/internal/catalog"
	"github.com/dmateos82/tunecase/internal/domain"
	"github.com/dmateos82/tunecase/internal/localstate"
	"github.com/dmateos82/tunecase/internal/scanner"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List the library folders and their selection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, state, err := loadCatalog(cmd, false)
		if err != nil {
			return err
		}
		defer state.Close()
		printFolders(cat.Folders())
		return nil
	},
}

var foldersToggleCmd = &cobra.Command{
	Use:   "toggle <number|path>",
	Short: "Toggle whether a folder's songs are playable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, state, err := loadCatalog(cmd, false)
		if err != nil {
			return err
		}
		defer state.Close()

		folders := cat.Folders()
		path := args[0]
		if n, err := strconv.Atoi(path); err == nil {
			if n < 1 || n > len(folders) {
				return fmt.Errorf("folder number out of range: %d", n)
			}
			path = folders[n-1].Path
		}

		selected := cat.ToggleFolder(path)
		paths := cat.SelectedPaths()
		if _, err := state.UpdateSettings(domain.SettingsUpdate{SelectedFolders: &paths}); err != nil {
			return err
		}

		if selected {
			fmt.Printf("Folder %s is now playable.\n", path)
		} else {
			fmt.Printf("Folder %s is now excluded.\n", path)
		}
		if len(paths) == 0 {
			fmt.Println("Warning: every folder is deselected, nothing is playable.")
		}
		return nil
	},
}

func init() {
	foldersCmd.AddCommand(foldersToggleCmd)
	rootCmd.AddCommand(foldersCmd)
}

// loadCatalog scans the library and applies the saved folder selection.
// The caller owns the returned state store.
func loadCatalog(cmd *cobra.Command, push bool) (*catalog.Catalog, *localstate.Store, error) {
	state, err := localstate.Open(cfg.StatePath)
	if err != nil {
		return nil, nil, err
	}
	settings, err := state.Settings()
	if err != nil {
		state.Close()
		return nil, nil, err
	}

	result, err := scanLibrary(cmd.Context(), push)
	if err != nil {
		state.Close()
		if errors.Is(err, scanner.ErrNoMusic) {
			return nil, nil, errors.New("no music found in the library folders")
		}
		return nil, nil, err
	}

	cat := catalog.New()
	cat.SetScan(result.Songs, result.Folders, savedSelection(settings))
	return cat, state, nil
}

// savedSelection maps "never toggled anything" to nil so a fresh install
// starts with every folder selected instead of nothing playable.
func savedSelection(settings domain.Settings) []string {
	if len(settings.SelectedFolders) == 0 {
		return nil
	}
	return settings.SelectedFolders
}

func printFolders(folders []domain.Folder) {
	for i, f := range folders {
		mark := " "
		if f.Selected {
			mark = "x"
		}
		fmt.Printf("%2d. [%s] %s (%d songs) %s\n", i+1, mark, f.Name, f.SongCount, f.Path)
	}
}
