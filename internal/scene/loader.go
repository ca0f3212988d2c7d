// Package scene loads Unity text-serialized scenes and prefabs into a host
// object universe.
package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/serial"
)

var ErrNotSerialized = errors.New("not a text-serialized Unity file")

type Options struct {
	// Scripts maps lower-case script GUIDs to component kinds
	Scripts map[string]host.Kind

	// Registry checks event layouts on load. Defaults to events.Default().
	Registry *events.Registry

	// Assets names external references and scripts. Optional.
	Assets *AssetIndex
}

// Problem is something wrong with the input that did not stop the load
type Problem struct {
	File   string
	Object host.ObjectID
	Err    error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s: %v", filepath.Base(p.File), p.Object, p.Err)
}

// File is one loaded scene or prefab
type File struct {
	Path     string
	Template bool

	objects         *Registry[host.ObjectID, host.Object]
	assets          *AssetIndex
	prefabInstances int
	stripped        int
}

// resolve maps a serialized reference onto the universe. Null and dangling
// local references resolve to nil.
func (f *File) resolve(ref serial.ObjectRef) host.Object {
	switch {
	case ref.IsNull():
		return nil
	case ref.IsLocal():
		o, ok := f.objects.Get(host.ObjectID(ref.FileID))
		if !ok {
			return nil
		}
		return o
	default:
		ext := &ExternalObject{Ref: ref}
		if p, ok := f.assets.Path(ref.GUID); ok {
			ext.Asset = p
		}
		return ext
	}
}

// Universe is the merged object set of one or more loaded files
type Universe struct {
	files    []*File
	objects  *Registry[host.ObjectID, host.Object]
	problems []Problem
	assets   *AssetIndex
}

func (u *Universe) Objects() []host.Object { return u.objects.Values() }

func (u *Universe) Lookup(id host.ObjectID) (host.Object, bool) { return u.objects.Get(id) }

func (u *Universe) Files() []*File { return u.files }

func (u *Universe) Problems() []Problem { return u.problems }

// TemplatesOnly reports whether every loaded file is a prefab asset
func (u *Universe) TemplatesOnly() bool {
	if len(u.files) == 0 {
		return false
	}
	for _, f := range u.files {
		if !f.Template {
			return false
		}
	}
	return true
}

func (u *Universe) Assets() *AssetIndex { return u.assets }

// Roots returns top-level GameObjects in load order
func (u *Universe) Roots() []*GameObject {
	var out []*GameObject
	for _, o := range u.objects.Values() {
		if g, ok := o.(*GameObject); ok && g.parent == nil {
			out = append(out, g)
		}
	}
	return out
}

func (u *Universe) Statistics() Statistics {
	stats := Statistics{Details: map[string]int{}}
	for _, o := range u.objects.Values() {
		stats.TotalCount++
		switch v := o.(type) {
		case *GameObject:
			stats.Details["game_objects"]++
		case *Component:
			stats.Details["components"]++
			if v.kind.IsEventCapable() {
				stats.Details["event_components"]++
			}
			if v.template {
				stats.Details["templates"]++
			}
		}
	}
	for _, f := range u.files {
		stats.Details["prefab_instances"] += f.prefabInstances
		stats.Details["stripped"] += f.stripped
	}
	stats.Details["files"] = len(u.files)
	stats.Details["problems"] = len(u.problems)
	return stats
}

// Load reads a single scene or prefab
func Load(path string, opts Options) (*Universe, error) {
	return LoadFiles(context.Background(), []string{path}, opts)
}

// LoadFiles parses files concurrently and merges them in argument order.
// When two files define the same object ID the first one wins.
func LoadFiles(ctx context.Context, paths []string, opts Options) (*Universe, error) {
	if opts.Registry == nil {
		opts.Registry = events.Default()
	}

	files := make([]*File, len(paths))
	problems := make([][]Problem, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, probs, err := loadFile(path, opts)
			if err != nil {
				return err
			}
			files[i], problems[i] = f, probs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u := &Universe{
		files:   files,
		objects: NewRegistry[host.ObjectID, host.Object](),
		assets:  opts.Assets,
	}
	for i, f := range files {
		u.problems = append(u.problems, problems[i]...)
		for _, o := range f.objects.Values() {
			if !u.objects.Add(o.ID(), o) {
				u.problems = append(u.problems, Problem{
					File:   f.Path,
					Object: o.ID(),
					Err:    errors.New("object id already defined by an earlier file"),
				})
			}
		}
	}

	slog.Debug("scene loaded",
		slog.Int("files", len(files)),
		slog.Int("objects", u.objects.Count()),
		slog.Int("problems", len(u.problems)),
	)
	return u, nil
}

func loadFile(path string, opts Options) (*File, []Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !strings.HasPrefix(string(data), "%YAML") {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrNotSerialized)
	}

	docs, err := splitDocuments(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	f := &File{
		Path:     path,
		Template: strings.EqualFold(filepath.Ext(path), ".prefab"),
		objects:  NewRegistry[host.ObjectID, host.Object](),
		assets:   opts.Assets,
	}
	b := &builder{file: f, scripts: opts.Scripts}
	for _, d := range docs {
		b.add(d)
	}
	b.link()

	var problems []Problem
	for _, c := range b.components {
		// stripped documents keep their data in the source prefab
		if c.stripped {
			continue
		}
		if err := opts.Registry.CheckComponent(c); err != nil {
			slog.Warn("event layout mismatch",
				slog.String("file", path),
				slog.Any("component", c.id),
				slog.String("error", err.Error()),
			)
			problems = append(problems, Problem{File: path, Object: c.id, Err: err})
		}
	}
	return f, problems, nil
}

// builder turns documents into linked objects
type builder struct {
	file       *File
	scripts    map[string]host.Kind
	gameObjs   []*GameObject
	components []*Component

	goComponents map[host.ObjectID][]host.ObjectID
	transforms   map[host.ObjectID]*transformLinks
}

type transformLinks struct {
	gameObject host.ObjectID
	children   []host.ObjectID
}

func (b *builder) add(d document) {
	if b.goComponents == nil {
		b.goComponents = make(map[host.ObjectID][]host.ObjectID)
		b.transforms = make(map[host.ObjectID]*transformLinks)
	}
	if d.stripped {
		b.file.stripped++
	}

	base := object{id: d.id, file: b.file, template: b.file.Template || d.stripped, stripped: d.stripped}

	switch d.class {
	case ClassPrefabInstance:
		b.file.prefabInstances++
		return

	case ClassGameObject:
		g := &GameObject{object: base, active: true}
		g.name = stringField(d.body, "m_Name")
		if active, ok := serial.Child(d.body, "m_IsActive"); ok {
			if v, err := active.BoolValue(); err == nil {
				g.active = v
			}
		}
		b.goComponents[d.id] = refList(d.body, "m_Component", "component")
		b.gameObjs = append(b.gameObjs, g)
		b.file.objects.Add(d.id, g)
		return
	}

	c := &Component{object: base, class: d.class, body: d.body, kind: host.KindUnknown}
	c.name = d.typeName
	if ref, ok := refField(d.body, "m_GameObject"); ok {
		c.ownerID = host.ObjectID(ref.FileID)
	}

	switch d.class {
	case ClassTransform, ClassRectTransform:
		b.transforms[d.id] = &transformLinks{
			gameObject: c.ownerID,
			children:   refList(d.body, "m_Children", ""),
		}
	case ClassMonoBehaviour:
		if ref, ok := refField(d.body, "m_Script"); ok {
			c.script = ref
			if kind, ok := b.scripts[strings.ToLower(ref.GUID)]; ok {
				c.kind = kind
			}
		}
	}

	b.components = append(b.components, c)
	b.file.objects.Add(d.id, c)
}

// link attaches components to their GameObjects and builds the hierarchy
func (b *builder) link() {
	gos := make(map[host.ObjectID]*GameObject, len(b.gameObjs))
	for _, g := range b.gameObjs {
		gos[g.id] = g
	}

	attached := make(map[host.ObjectID]bool)
	for _, g := range b.gameObjs {
		for _, cid := range b.goComponents[g.id] {
			o, ok := b.file.objects.Get(cid)
			if !ok {
				continue
			}
			if c, ok := o.(*Component); ok && !attached[cid] {
				c.owner = g
				g.components = append(g.components, c)
				attached[cid] = true
			}
		}
	}
	for _, c := range b.components {
		if attached[c.id] {
			continue
		}
		if g, ok := gos[c.ownerID]; ok {
			c.owner = g
			g.components = append(g.components, c)
		}
	}

	for _, t := range b.transforms {
		parent, ok := gos[t.gameObject]
		if !ok {
			continue
		}
		for _, childID := range t.children {
			ct, ok := b.transforms[childID]
			if !ok {
				continue
			}
			if child, ok := gos[ct.gameObject]; ok && child.parent == nil {
				child.parent = parent
				parent.children = append(parent.children, child)
			}
		}
	}
}

func stringField(body serial.Property, name string) string {
	p, ok := serial.Child(body, name)
	if !ok {
		return ""
	}
	s, _ := p.StringValue()
	return s
}

func refField(body serial.Property, name string) (serial.ObjectRef, bool) {
	p, ok := serial.Child(body, name)
	if !ok {
		return serial.ObjectRef{}, false
	}
	ref, err := p.ObjectRefValue()
	if err != nil || ref.IsNull() {
		return serial.ObjectRef{}, false
	}
	return ref, true
}

// refList reads a list of local references. With key set, each element is a
// mapping holding the reference under key.
func refList(body serial.Property, name, key string) []host.ObjectID {
	list, ok := serial.Child(body, name)
	if !ok {
		return nil
	}
	var out []host.ObjectID
	for i := 0; i < list.Len(); i++ {
		item, _ := list.Index(i)
		if key != "" {
			if item, ok = item.FindChild(key); !ok {
				continue
			}
		}
		if ref, err := item.ObjectRefValue(); err == nil && !ref.IsNull() {
			out = append(out, host.ObjectID(ref.FileID))
		}
	}
	return out
}
