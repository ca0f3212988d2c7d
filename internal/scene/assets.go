package scene

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// skipped while walking a project; they hold generated or VCS data
var skipDirs = map[string]bool{
	"Library": true,
	"Temp":    true,
	"Logs":    true,
	"obj":     true,
	".git":    true,
}

// AssetIndex maps asset GUIDs to their project paths, as recorded in the
// .meta file next to every asset.
type AssetIndex struct {
	root   string
	byGUID map[string]string
}

func NewAssetIndex(root string) *AssetIndex {
	return &AssetIndex{root: root, byGUID: make(map[string]string)}
}

func (a *AssetIndex) Add(guid, path string) {
	a.byGUID[strings.ToLower(guid)] = path
}

// Path returns the asset path for guid. A nil index knows nothing.
func (a *AssetIndex) Path(guid string) (string, bool) {
	if a == nil {
		return "", false
	}
	p, ok := a.byGUID[strings.ToLower(guid)]
	return p, ok
}

// Name is the asset's file name without extension, e.g. MenuController
func (a *AssetIndex) Name(guid string) (string, bool) {
	p, ok := a.Path(guid)
	if !ok {
		return "", false
	}
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base)), true
}

func (a *AssetIndex) Len() int {
	if a == nil {
		return 0
	}
	return len(a.byGUID)
}

func (a *AssetIndex) Root() string {
	if a == nil {
		return ""
	}
	return a.root
}

// IndexAssets reads every .meta file below root
func IndexAssets(ctx context.Context, root string) (*AssetIndex, error) {
	metas, err := walkFiles(root, ".meta")
	if err != nil {
		return nil, err
	}

	guids := make([]string, len(metas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, meta := range metas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			guid, err := readMetaGUID(meta)
			if err != nil {
				return err
			}
			guids[i] = guid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to index assets under %s: %w", root, err)
	}

	idx := NewAssetIndex(root)
	for i, meta := range metas {
		if guids[i] == "" {
			continue
		}
		rel, err := filepath.Rel(root, strings.TrimSuffix(meta, ".meta"))
		if err != nil {
			rel = strings.TrimSuffix(meta, ".meta")
		}
		idx.Add(guids[i], filepath.ToSlash(rel))
	}
	return idx, nil
}

func readMetaGUID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if guid, ok := strings.CutPrefix(line, "guid:"); ok {
			return strings.TrimSpace(guid), nil
		}
	}
	return "", scanner.Err()
}

// FindScenes lists scene and prefab files below root, sorted
func FindScenes(root string) ([]string, error) {
	scenes, err := walkFiles(root, ".unity", ".prefab")
	if err != nil {
		return nil, err
	}
	slices.Sort(scenes)
	return scenes, nil
}

func walkFiles(root string, exts ...string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, filepath.Ext(path)) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return out, nil
}
