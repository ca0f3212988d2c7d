package scene

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/serial"
)

// Unity class IDs the loader understands
const (
	ClassGameObject     = 1
	ClassTransform      = 4
	ClassMonoBehaviour  = 114
	ClassRectTransform  = 224
	ClassPrefabInstance = 1001
)

var headerPattern = regexp.MustCompile(`^--- !u!(\d+) &(-?\d+)( stripped)?\s*$`)

// document is one `--- !u!<class> &<fileID>` section of a serialized file
type document struct {
	class    int
	id       host.ObjectID
	stripped bool
	typeName string
	body     serial.Property
	line     int
}

func splitDocuments(data []byte) ([]document, error) {
	lines := bytes.Split(data, []byte("\n"))

	var (
		docs  []document
		cur   *document
		start int
	)
	flush := func(end int) error {
		if cur == nil {
			return nil
		}
		if err := cur.parse(bytes.Join(lines[start:end], []byte("\n"))); err != nil {
			return err
		}
		docs = append(docs, *cur)
		return nil
	}

	for i, line := range lines {
		m := headerPattern.FindSubmatch(bytes.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		if err := flush(i); err != nil {
			return nil, err
		}

		class, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad class id: %w", i+1, err)
		}
		id, err := strconv.ParseInt(string(m[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad file id: %w", i+1, err)
		}
		cur = &document{class: class, id: host.ObjectID(id), stripped: len(m[3]) > 0, line: i + 1}
		start = i + 1
	}
	if err := flush(len(lines)); err != nil {
		return nil, err
	}
	return docs, nil
}

// parse reads a `TypeName: {...}` body. The serialized form is rooted at the
// value so paths read /m_OnClick rather than /MonoBehaviour/m_OnClick.
func (d *document) parse(body []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(body, &root); err != nil {
		return fmt.Errorf("line %d: failed to parse document &%d: %w", d.line, d.id, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return fmt.Errorf("line %d: empty document &%d", d.line, d.id)
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode || len(top.Content) < 2 {
		return fmt.Errorf("line %d: document &%d is not a typed mapping", d.line, d.id)
	}
	d.typeName = top.Content[0].Value
	d.body = serial.FromNode(top.Content[1])
	return nil
}
