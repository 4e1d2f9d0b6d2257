package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/archmap/archmap/pkg/cache"
	"github.com/archmap/archmap/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"

	// renderCacheTTL bounds how long rendered artifacts stay in the
	// local cache.
	renderCacheTTL = 7 * 24 * time.Hour
)

// exportCommand creates the export command for rendering documents.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a document drawing as DOT or SVG",
		Long: `Export a document drawing as DOT or SVG.

Both maps are drawn side by side: containment as dashed lines, linkTo
edges as solid arrows and instanceOf ties as dotted arrows. SVG output
is rendered through Graphviz and cached locally, keyed on the document
content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", format)
			}
			return c.runExport(cmd.Context(), args[0], format, output, detailed, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include ids and kinds in node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runExport renders the document and writes the artifact.
func (c *CLI) runExport(ctx context.Context, input, format, output string, detailed, noCache bool) error {
	text, tree, reg, err := loadDocument(input)
	if err != nil {
		return err
	}

	dot := render.ToDOT(tree, reg, render.Options{Detailed: detailed})

	var data []byte
	cached := false
	switch format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, cached, err = c.renderSVG(ctx, text, dot, detailed, noCache)
		if err != nil {
			return err
		}
	}

	path := outputPath(output, input, format)
	if err := writeOutput(data, path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Export complete")
	printFile(path)
	printStats(reg.Len(), countLinks(tree), cached)
	return nil
}

// renderSVG renders the DOT text through Graphviz, going through the
// local cache first.
func (c *CLI) renderSVG(ctx context.Context, text, dot string, detailed, noCache bool) ([]byte, bool, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, false, fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	opts := cache.RenderKeyOpts{Format: formatSVG}
	if detailed {
		opts.Format = formatSVG + "-detailed"
	}
	key := keyer.RenderKey(cache.Hash([]byte(text)), opts)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
	spinner.Start()
	data, err := render.RenderSVG(ctx, dot)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, false, fmt.Errorf("render svg: %w", err)
	}
	spinner.Stop()

	_ = store.Set(ctx, key, data, renderCacheTTL)
	return data, false, nil
}
