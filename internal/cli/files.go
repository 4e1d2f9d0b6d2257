package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/archmap/archmap/pkg/diagram"
	"github.com/archmap/archmap/pkg/document"
)

// maxDocumentSize caps input documents at 4 MiB.
const maxDocumentSize = 4 << 20

// loadDocument reads and parses a document file. It returns the raw
// text alongside the parsed tree so callers can hash the input for
// cache keys.
func loadDocument(path string) (string, *diagram.Tree, *diagram.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > maxDocumentSize {
		return "", nil, nil, fmt.Errorf("%s: document exceeds %d bytes", path, maxDocumentSize)
	}
	tree, reg, err := document.Parse(string(data))
	if err != nil {
		return "", nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return string(data), tree, reg, nil
}

// writeOutput writes data to path, or stdout when path is empty.
// Parent directories are created as needed.
func writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// outputPath returns the explicit output path, or derives one from the
// input file name by swapping its extension.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + ext
}

// countLinks tallies linkTo edges across both maps.
func countLinks(t *diagram.Tree) int {
	n := 0
	t.Walk(func(_ diagram.Side, it, _ *diagram.Item, _, _ int) bool {
		n += len(it.LinkTo)
		return true
	})
	return n
}

// printJSON prints v to stdout with two-space indentation.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// parseSide maps a --side flag value to a diagram side.
func parseSide(s string) (diagram.Side, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "", "sitemap":
		return diagram.SideSiteMap, nil
	case "objectmap":
		return diagram.SideObjectMap, nil
	default:
		return 0, fmt.Errorf("invalid side: %s (must be 'sitemap' or 'objectmap')", s)
	}
}
