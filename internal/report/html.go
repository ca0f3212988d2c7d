package report

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mabhi256/evinspect/internal/graph"
)

// Embed template files at compile time
//
//go:embed templates/template.html
var htmlTemplate string

//go:embed templates/styles.css
var cssContent string

//go:embed templates/app.js
var jsContent string

// GenerateHTMLReport writes a self-contained HTML page for g and returns
// its absolute path
func GenerateHTMLReport(g *graph.Graph, title, outputPath string) (string, error) {
	if err := validateReportData(g); err != nil {
		return "", fmt.Errorf("invalid report data: %w", err)
	}

	// Serialize data to JSON for JavaScript
	jsonData, err := json.Marshal(NewSnapshot(g, title))
	if err != nil {
		return "", fmt.Errorf("failed to marshal report data: %w", err)
	}

	htmlContent := generateSingleFileHTMLContent(title, string(jsonData))

	absPath, err := GetOutputPath(outputPath)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(absPath, []byte(htmlContent), 0644); err != nil {
		return "", fmt.Errorf("failed to write HTML file: %w", err)
	}

	return absPath, nil
}

func validateReportData(g *graph.Graph) error {
	if g == nil {
		return errors.New("graph cannot be nil")
	}
	if len(g.Nodes) == 0 {
		return errors.New("graph has no nodes")
	}
	return nil
}

// GetOutputPath returns a safe output path, creating directories if needed
func GetOutputPath(path string) (string, error) {
	outputPath := path
	if outputPath == "" {
		outputPath = GetDefaultOutputPath()
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath += ".html"
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", outputPath, err)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return absPath, nil
}

// generateSingleFileHTMLContent creates the single-file HTML with embedded CSS/JS
func generateSingleFileHTMLContent(title, jsonData string) string {
	// the blob lives inside a <script> element
	jsonData = strings.ReplaceAll(jsonData, "</", `<\/`)

	content := htmlTemplate
	content = strings.ReplaceAll(content, "{{TITLE}}", htmlEscaper.Replace(title))
	content = strings.ReplaceAll(content, "{{CSS_CONTENT}}", cssContent)
	content = strings.ReplaceAll(content, "{{JS_CONTENT}}", jsContent)
	content = strings.ReplaceAll(content, "{{JSON_DATA}}", jsonData)
	return content
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// GetDefaultOutputPath returns a default HTML output path
func GetDefaultOutputPath() string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("evinspect-report-%s.html", timestamp)
}
