package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mabhi256/evinspect/internal/graph"
)

// WriteJSON writes g as an indented Snapshot document
func WriteJSON(w io.Writer, g *graph.Graph, title string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewSnapshot(g, title)); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return nil
}
