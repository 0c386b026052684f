// Package scanner walks the device media index page by page and turns the
// discovered audio assets into the song catalog and its folder grouping.
package scanner

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dmateos82/tunecase/internal/constants"
)

// Asset is one entry of a media index page.
type Asset struct {
	ID   string
	Path string
}

// AssetPage is one page of index results.
type AssetPage struct {
	Assets     []Asset
	NextCursor string
	HasNext    bool
}

// ResolvedAsset is the per-asset detail lookup result: the local file
// reference plus whatever metadata the file carries.
type ResolvedAsset struct {
	LocalPath string
	Size      int64
	Meta      Meta
}

// MediaIndex is the paginated catalog of on-device audio assets.
type MediaIndex interface {
	// Page returns one page of assets. An empty cursor requests the first page.
	Page(ctx context.Context, cursor string, limit int) (*AssetPage, error)
	// Resolve looks up one asset's local file reference and metadata.
	Resolve(ctx context.Context, asset Asset) (*ResolvedAsset, error)
}

// LibraryIndex implements MediaIndex over local library directories. The
// file list is collected once per index instance and served in pages so the
// scan loop sees the same shape a device media store would give it.
type LibraryIndex struct {
	Roots []string

	once  sync.Once
	files []string
	err   error
}

func NewLibraryIndex(roots []string) *LibraryIndex {
	return &LibraryIndex{Roots: roots}
}

func (ix *LibraryIndex) collect() {
	for _, root := range ix.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtree: skip it, the rest of the walk continues.
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if supportedExt(filepath.Ext(path)) {
				ix.files = append(ix.files, path)
			}
			return nil
		})
		if err != nil {
			ix.err = fmt.Errorf("failed to walk library root %s: %w", root, err)
			return
		}
	}
	sort.Strings(ix.files)
}

func (ix *LibraryIndex) Page(ctx context.Context, cursor string, limit int) (*AssetPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ix.once.Do(ix.collect)
	if ix.err != nil {
		return nil, ix.err
	}
	if limit < 1 {
		limit = constants.DefaultScanPageSize
	}

	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid page cursor: %q", cursor)
		}
		offset = n
	}
	if offset > len(ix.files) {
		offset = len(ix.files)
	}

	end := offset + limit
	if end > len(ix.files) {
		end = len(ix.files)
	}

	page := &AssetPage{HasNext: end < len(ix.files)}
	for _, path := range ix.files[offset:end] {
		page.Assets = append(page.Assets, Asset{ID: AssetID(path), Path: path})
	}
	if page.HasNext {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (ix *LibraryIndex) Resolve(ctx context.Context, asset Asset) (*ResolvedAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(asset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset %s: %w", asset.ID, err)
	}

	resolved := &ResolvedAsset{
		LocalPath: asset.Path,
		Size:      info.Size(),
	}
	// Size stays best-effort even when the tags are unreadable.
	if meta, err := ReadMeta(asset.Path); err == nil {
		resolved.Meta = meta
	}
	return resolved, nil
}

// AssetID derives a stable identifier from the asset's path, so re-scans
// recreate each song under the same id.
func AssetID(path string) string {
	sum := sha1.Sum([]byte(path))
	return hex.EncodeToString(sum[:])[:16]
}

func supportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case constants.ExtMP3, constants.ExtFLAC, constants.ExtWAV, constants.ExtOGG:
		return true
	}
	return false
}
