package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archmap/archmap/pkg/route"
)

// arrowsCommand creates the arrows command for computing link routes.
func (c *CLI) arrowsCommand() *cobra.Command {
	var (
		sideStr  string
		selected string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "arrows [file]",
		Short: "Compute arrow routes for a document's links",
		Long: `Compute arrow routes for a document's links.

Lays the requested map out on a default column grid, routes every
linkTo edge as an orthogonal polyline and emits the corner points as
JSON. The same document always produces the same routes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			side, err := parseSide(sideStr)
			if err != nil {
				return err
			}

			_, tree, reg, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			geom := route.DefaultGeometry(tree, side, route.DefaultLayoutOpts())
			paths, err := route.Route(tree, reg, side, geom, route.Options{SelectedID: selected})
			if err != nil {
				return fmt.Errorf("route: %w", err)
			}

			body := struct {
				Side  string       `json:"side"`
				Paths []route.Path `json:"paths"`
			}{Side: side.String(), Paths: paths}

			data, err := json.MarshalIndent(body, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if err := writeOutput(data, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if output != "" {
				printSuccess("Routed %d arrows", len(paths))
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sideStr, "side", "s", "sitemap", "map to route: sitemap (default), objectmap")
	cmd.Flags().StringVar(&selected, "selected", "", "item id whose arrows are flagged as selected")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
