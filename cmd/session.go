package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mabhi256/evinspect/internal/config"
	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/scene"
	"github.com/mabhi256/evinspect/internal/tui"
	"github.com/mabhi256/evinspect/utils"
)

var sceneExtensions = []string{".unity", ".prefab"}

// session is everything needed to re-run one query from scratch
type session struct {
	cfg     *config.Config
	files   []string
	project string
	root    host.ObjectID
}

func newSession(c *config.Config, files []string, project string) (*session, error) {
	if len(files) == 0 {
		return nil, errors.New("no scene files given")
	}
	for _, f := range files {
		if !isSceneFile(f) {
			return nil, fmt.Errorf("not a scene or prefab: %s", f)
		}
		if _, err := os.Stat(f); err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", f, err)
		}
	}
	if project == "" {
		project = detectProjectRoot(files[0])
	}
	return &session{cfg: c, files: files, project: project}, nil
}

func isSceneFile(name string) bool {
	return utils.HasExtension(name, sceneExtensions)
}

// detectProjectRoot returns the directory holding the Assets folder the
// file lives in, or "" outside a Unity project
func detectProjectRoot(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return ""
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if filepath.Base(dir) == "Assets" {
			return filepath.Dir(dir)
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}

func (s *session) load(ctx context.Context) (*scene.Universe, error) {
	var assets *scene.AssetIndex
	if s.project != "" {
		idx, err := scene.IndexAssets(ctx, s.project)
		if err != nil {
			slog.Warn("asset index unavailable", slog.String("project", s.project), slog.Any("error", err))
		} else {
			assets = idx
			slog.Debug("assets indexed", slog.String("project", s.project), slog.Int("assets", idx.Len()))
		}
	}

	u, err := scene.LoadFiles(ctx, s.files, scene.Options{
		Scripts:  s.cfg.ScriptKinds(),
		Registry: events.Default(),
		Assets:   assets,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return u, nil
}

// target is the whole scene, or the object named by --root
func (s *session) target(u *scene.Universe) (any, error) {
	if s.root == 0 {
		return graph.Scene, nil
	}
	obj, ok := u.Lookup(s.root)
	if !ok {
		return nil, fmt.Errorf("object %s not found", s.root)
	}
	return obj, nil
}

func (s *session) title() string {
	names := make([]string, 0, len(s.files))
	for _, f := range s.files {
		names = append(names, filepath.Base(f))
	}
	title := strings.Join(names, ", ")
	if s.root != 0 {
		title += " " + s.root.String()
	}
	return title
}

// query runs one complete load-and-build cycle
func (s *session) query(ctx context.Context) (*tui.Snapshot, error) {
	u, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	target, err := s.target(u)
	if err != nil {
		return nil, err
	}

	adapter := graph.NewAdapter(u, events.Default())
	adapter.IncludeTemplates = u.TemplatesOnly()
	g, err := graph.NewBuilder(adapter).Build(target)
	if err != nil {
		return nil, err
	}

	problems := make([]string, 0, len(u.Problems()))
	for _, p := range u.Problems() {
		problems = append(problems, p.String())
	}

	return &tui.Snapshot{
		Title:    s.title(),
		Root:     s.project,
		Graph:    g,
		Problems: problems,
		Universe: u,
	}, nil
}
