package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archmap/archmap/pkg/document"
)

// errNotCanonical is returned by fmt --check for a file that would be
// rewritten.
var errNotCanonical = errors.New("document is not canonical")

// fmtCommand creates the fmt command for canonical formatting.
func (c *CLI) fmtCommand() *cobra.Command {
	var (
		write bool
		check bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a document in canonical form",
		Long: `Rewrite a document in canonical form.

Parses the document and regenerates it with fixed attribute order,
indentation and self-closing leaf tags, so that equivalent documents
are byte-identical. By default the canonical text goes to stdout;
use --write to rewrite the file in place or --check to only report
whether it differs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, tree, _, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			canonical := document.Generate(tree)

			switch {
			case check:
				if canonical != text {
					printWarning("%s is not canonical", args[0])
					printNextStep("Fix", "archmap fmt -w "+args[0])
					return errNotCanonical
				}
				printSuccess("%s is canonical", args[0])
				return nil
			case write:
				if canonical == text {
					printInfo("%s is already canonical", args[0])
					return nil
				}
				if err := os.WriteFile(args[0], []byte(canonical), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", args[0], err)
				}
				printSuccess("Formatted %s", args[0])
				return nil
			default:
				fmt.Print(canonical)
				return nil
			}
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	cmd.Flags().BoolVar(&check, "check", false, "exit non-zero when the file is not canonical")

	return cmd
}
