package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/archmap/archmap/pkg/document"
)

// errInvalidDocument is returned after validation details have already
// been printed, so the CLI exits non-zero without repeating them.
var errInvalidDocument = errors.New("document is invalid")

// validateCommand creates the validate command for checking documents.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a diagram document",
		Long: `Validate a diagram document.

Parses the document and reports the first structural violation found:
malformed markup, duplicate ids, missing required attributes, invalid
nesting, or dangling references. A valid document prints its item and
link counts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tree, reg, err := loadDocument(args[0])
			if err != nil {
				var perr *document.ParseError
				if !errors.As(err, &perr) {
					return err
				}
				printError("%s is invalid", args[0])
				printDetail("code: %s", perr.Code)
				if perr.Line > 0 {
					printDetail("line: %d", perr.Line)
				}
				if perr.ItemID != "" {
					printDetail("item: %s", perr.ItemID)
				}
				if perr.Detail != "" {
					printDetail("%s", perr.Detail)
				}
				return errInvalidDocument
			}

			printSuccess("%s is valid", args[0])
			printStats(reg.Len(), countLinks(tree), false)
			return nil
		},
	}
}
