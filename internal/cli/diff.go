package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/archmap/archmap/pkg/cache"
	"github.com/archmap/archmap/pkg/diagram"
	"github.com/archmap/archmap/pkg/diff"
)

// diffCacheTTL bounds how long changesets stay in the local cache.
const diffCacheTTL = 24 * time.Hour

// Change styles
var (
	styleAdded    = lipgloss.NewStyle().Foreground(colorGreen)
	styleRemoved  = lipgloss.NewStyle().Foreground(colorRed)
	styleModified = lipgloss.NewStyle().Foreground(colorYellow)
	styleMoved    = lipgloss.NewStyle().Foreground(colorBlue)
)

// diffCommand creates the diff command for comparing two documents.
func (c *CLI) diffCommand() *cobra.Command {
	var (
		jsonOut bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "diff [old] [new]",
		Short: "Compare two document versions",
		Long: `Compare two document versions.

Both files are parsed and their items compared by id: items present
only in the new document are added, items present only in the old one
are removed, and shared items are reported as modified or moved when
their semantic fields differ. Presentational differences (column
placement, sibling order) are ignored.

Changesets are cached locally, keyed on the content of both inputs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiff(cmd.Context(), args[0], args[1], jsonOut, noCache)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the changeset as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runDiff parses both inputs and prints their changeset.
func (c *CLI) runDiff(ctx context.Context, oldPath, newPath string, jsonOut, noCache bool) error {
	oldText, oldTree, _, err := loadDocument(oldPath)
	if err != nil {
		return err
	}
	newText, newTree, _, err := loadDocument(newPath)
	if err != nil {
		return err
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	keyer := cache.NewDefaultKeyer()
	key := keyer.DiffKey(cache.Hash([]byte(oldText)), cache.Hash([]byte(newText)))

	var changes []diff.Change
	cached := false
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		if json.Unmarshal(data, &changes) == nil {
			cached = true
		}
	}
	if !cached {
		changes, err = diff.Diff(oldTree, newTree)
		if err != nil {
			return fmt.Errorf("diff: %w", err)
		}
		if data, err := json.Marshal(changes); err == nil {
			_ = store.Set(ctx, key, data, diffCacheTTL)
		}
	}

	if jsonOut {
		data, err := json.MarshalIndent(changes, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(changes) == 0 {
		printSuccess("No changes")
		return nil
	}
	printChanges(changes)
	printNewline()
	printDetail("%d changes", len(changes))
	if cached {
		printDetail("%s", styleCached.Render(iconCached))
	}
	return nil
}

// printChanges prints the changeset grouped by map, in the changeset's
// deterministic order.
func printChanges(changes []diff.Change) {
	currentMap := ""
	for _, ch := range changes {
		if ch.Map != currentMap {
			currentMap = ch.Map
			if currentMap == diagram.SideObjectMap.String() {
				fmt.Println(StyleTitle.Render("Object Map"))
			} else {
				fmt.Println(StyleTitle.Render("Site Map"))
			}
		}
		marker, style := changeMarker(ch.Op)
		fmt.Println("  " + style.Render(marker+" "+ch.Path) + " " + StyleDim.Render("["+ch.ID+"]"))
		for _, d := range changeDetails(ch) {
			printDetail("  %s", d)
		}
	}
}

// changeMarker returns the one-character prefix and style for an op.
func changeMarker(op diff.Op) (string, lipgloss.Style) {
	switch op {
	case diff.OpAdded:
		return "+", styleAdded
	case diff.OpRemoved:
		return "-", styleRemoved
	case diff.OpMoved:
		return ">", styleMoved
	default:
		return "~", styleModified
	}
}

// changeDetails renders the field-level deltas of one change.
func changeDetails(ch diff.Change) []string {
	var details []string
	if ch.TitleChanged {
		details = append(details, fmt.Sprintf("title: %q to %q", ch.OldTitle, ch.NewTitle))
	}
	if ch.InstanceChanged {
		details = append(details, fmt.Sprintf("instanceOf: %q to %q", ch.OldInstanceOf, ch.NewInstanceOf))
	}
	if ch.Links != nil {
		var parts []string
		for _, id := range ch.Links.Added {
			parts = append(parts, "+"+id)
		}
		for _, id := range ch.Links.Removed {
			parts = append(parts, "-"+id)
		}
		details = append(details, "links: "+strings.Join(parts, " "))
	}
	if ch.Op == diff.OpMoved {
		details = append(details, fmt.Sprintf("parent: %s to %s", orRoot(ch.OldParent), orRoot(ch.NewParent)))
	}
	return details
}

// orRoot substitutes "(root)" for the empty parent id.
func orRoot(id string) string {
	if id == "" {
		return "(root)"
	}
	return id
}
