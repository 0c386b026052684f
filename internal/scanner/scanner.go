package scanner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/dmateos82/tunecase/internal/constants"
	"github.com/dmateos82/tunecase/internal/domain"
	"github.com/dmateos82/tunecase/internal/logger"
)

// ErrNoMusic signals a completed scan that found nothing playable. Callers
// surface it instead of presenting an empty player.
var ErrNoMusic = errors.New("no music found")

// ProgressFunc receives human-readable progress text while a scan runs.
// It is a side channel; the scan result does not depend on it.
type ProgressFunc func(message string)

// Result is the outcome of one scan: the songs in index order and the
// folder grouping derived from them.
type Result struct {
	Songs   []domain.Song
	Folders []domain.Folder
	Skipped int
}

func (r *Result) Empty() bool {
	return len(r.Songs) == 0
}

// Scanner drives the paginated walk over a media index.
type Scanner struct {
	Index    MediaIndex
	PageSize int
	Logger   *logger.Logger
	Progress ProgressFunc

	// Submit receives every discovered song, fire and forget. A failing
	// sink must not stop the scan, so the hook has no error return.
	Submit func(domain.Song)
}

func New(index MediaIndex, pageSize int, log *logger.Logger) *Scanner {
	if pageSize < 1 {
		pageSize = constants.DefaultScanPageSize
	}
	return &Scanner{
		Index:    index,
		PageSize: pageSize,
		Logger:   log.WithComponent("scanner"),
	}
}

// Scan pages through the media index, resolves every asset and builds the
// catalog. Per-asset failures are logged and skipped; only a failure of the
// index query itself aborts the scan.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	var assets []Asset
	cursor := ""
	for {
		page, err := s.Index.Page(ctx, cursor, s.PageSize)
		if err != nil {
			return nil, fmt.Errorf("media index query failed: %w", err)
		}
		assets = append(assets, page.Assets...)
		s.progress(fmt.Sprintf("Found %d audio files...", len(assets)))
		if !page.HasNext {
			break
		}
		cursor = page.NextCursor
	}

	result := &Result{}
	total := len(assets)
	folderOrder := []string{}
	folderCounts := map[string]int{}

	for i, asset := range assets {
		resolved, err := s.Index.Resolve(ctx, asset)
		if err != nil {
			result.Skipped++
			s.Logger.Warn("Skipping unresolvable asset", "asset_id", asset.ID, "error", err)
			continue
		}

		song := buildSong(asset, resolved)
		result.Songs = append(result.Songs, song)

		if _, seen := folderCounts[song.FolderPath]; !seen {
			folderOrder = append(folderOrder, song.FolderPath)
		}
		folderCounts[song.FolderPath]++

		if s.Submit != nil {
			s.Submit(song)
		}
		s.progress(fmt.Sprintf("Processing %d/%d: %s", i+1, total, song.Title))
	}

	for _, path := range folderOrder {
		result.Folders = append(result.Folders, domain.Folder{
			Path:      path,
			Name:      FolderName(path),
			SongCount: folderCounts[path],
			Selected:  true,
		})
	}

	s.progress(fmt.Sprintf("Scan complete: %d songs in %d folders (%d skipped)",
		len(result.Songs), len(result.Folders), result.Skipped))
	return result, nil
}

func (s *Scanner) progress(msg string) {
	if s.Progress != nil {
		s.Progress(msg)
	}
}

func buildSong(asset Asset, resolved *ResolvedAsset) domain.Song {
	meta := resolved.Meta

	title := meta.Title
	if title == "" {
		title = DisplayTitle(resolved.LocalPath)
	}
	artist := meta.Artist
	if artist == "" {
		artist = constants.UnknownArtist
	}
	album := meta.Album
	if album == "" {
		album = constants.UnknownAlbum
	}

	return domain.Song{
		ID:         asset.ID,
		Title:      title,
		Artist:     artist,
		Album:      album,
		Duration:   meta.DurationMS,
		FilePath:   resolved.LocalPath,
		FolderPath: filepath.Dir(resolved.LocalPath),
		Format:     strings.TrimPrefix(strings.ToLower(filepath.Ext(resolved.LocalPath)), "."),
		Size:       resolved.Size,
		Artwork:    meta.Artwork,
		Genre:      meta.Genre,
		Year:       meta.Year,
		Lyrics:     meta.Lyrics,
		AddedDate:  time.Now().UTC(),
	}
}

// FolderName is the display name of a folder: its last path segment.
func FolderName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}

// DisplayTitle derives a title from a file name: extension stripped,
// separators spaced, words title cased.
func DisplayTitle(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	if len(words) == 0 {
		return constants.UnknownTitle
	}
	return strings.Join(words, " ")
}
