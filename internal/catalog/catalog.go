// Package catalog holds the result of the latest scan and the user's
// folder selection, and derives the playable song set from them.
package catalog

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/dmateos82/tunecase/internal/domain"
)

// FilterSongs returns the subsequence of songs whose folder path is in the
// selected set, order preserved. An empty selection yields an empty set:
// deselecting everything means nothing is playable.
func FilterSongs(songs []domain.Song, selected map[string]struct{}) []domain.Song {
	if len(selected) == 0 {
		return []domain.Song{}
	}
	return lo.Filter(songs, func(song domain.Song, _ int) bool {
		_, ok := selected[song.FolderPath]
		return ok
	})
}

// Catalog is the in-memory view of the library: the songs and folders of
// the latest scan plus the current selection.
type Catalog struct {
	mu       sync.RWMutex
	songs    []domain.Song
	folders  []domain.Folder
	selected map[string]struct{}
}

func New() *Catalog {
	return &Catalog{selected: map[string]struct{}{}}
}

// SetScan replaces the catalog with a new scan result. A previously saved
// selection is kept where its folders still exist; everything else defaults
// to selected, so a first scan starts fully selected.
func (c *Catalog) SetScan(songs []domain.Song, folders []domain.Folder, savedSelection []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.songs = songs
	c.folders = append([]domain.Folder(nil), folders...)

	saved := map[string]struct{}{}
	for _, path := range savedSelection {
		saved[path] = struct{}{}
	}

	c.selected = map[string]struct{}{}
	for i := range c.folders {
		path := c.folders[i].Path
		sel := true
		if savedSelection != nil {
			_, sel = saved[path]
		}
		c.folders[i].Selected = sel
		if sel {
			c.selected[path] = struct{}{}
		}
	}
}

// ToggleFolder flips one folder's selection and reports the new state.
// Unknown paths are ignored and report false.
func (c *Catalog) ToggleFolder(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.folders {
		if c.folders[i].Path != path {
			continue
		}
		c.folders[i].Selected = !c.folders[i].Selected
		if c.folders[i].Selected {
			c.selected[path] = struct{}{}
		} else {
			delete(c.selected, path)
		}
		return c.folders[i].Selected
	}
	return false
}

// PlayableSongs is the filtered song set used for all random/next picks.
func (c *Catalog) PlayableSongs() []domain.Song {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FilterSongs(c.songs, c.selected)
}

func (c *Catalog) Songs() []domain.Song {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.songs
}

func (c *Catalog) Folders() []domain.Folder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Folder(nil), c.folders...)
}

// SelectedPaths returns the selected folder paths, sorted for stable
// persistence.
func (c *Catalog) SelectedPaths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := lo.Keys(c.selected)
	sort.Strings(paths)
	return paths
}

func (c *Catalog) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.songs) == 0
}
