package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/archmap/archmap/pkg/diff"
	"github.com/archmap/archmap/pkg/document"
	apperrors "github.com/archmap/archmap/pkg/errors"
	"github.com/archmap/archmap/pkg/store"
)

// mongoURIEnv is consulted when --mongo-uri is not given.
const mongoURIEnv = "ARCHMAP_MONGO_URI"

// versionsCommand creates the versions command group for the version
// store.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		mongoURI string
		database string
	)

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage stored document versions",
		Long: `Manage stored document versions.

Documents are stored per project in MongoDB with monotonically
increasing version numbers. The connection string comes from
--mongo-uri or the ` + mongoURIEnv + ` environment variable.`,
	}

	cmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", os.Getenv(mongoURIEnv), "MongoDB connection string")
	cmd.PersistentFlags().StringVar(&database, "db", "archmap", "database name")

	cmd.AddCommand(c.versionsSaveCommand(&mongoURI, &database))
	cmd.AddCommand(c.versionsListCommand(&mongoURI, &database))
	cmd.AddCommand(c.versionsShowCommand(&mongoURI, &database))
	cmd.AddCommand(c.versionsDiffCommand(&mongoURI, &database))

	return cmd
}

// openStore connects to the version store.
func openStore(ctx context.Context, uri, database string) (store.VersionStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("no MongoDB URI: pass --mongo-uri or set %s", mongoURIEnv)
	}
	st, err := store.NewMongoStore(ctx, uri, database)
	if err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}
	return st, nil
}

// versionsSaveCommand creates the "versions save" subcommand.
func (c *CLI) versionsSaveCommand(mongoURI, database *string) *cobra.Command {
	return &cobra.Command{
		Use:   "save [project] [file]",
		Short: "Store a document as the project's next version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := args[0]
			if err := apperrors.ValidateProjectName(project); err != nil {
				return err
			}

			_, tree, reg, err := loadDocument(args[1])
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), *mongoURI, *database)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			// Versions store the canonical form, so diffing two
			// stored versions never sees formatting noise.
			v, err := st.Save(cmd.Context(), project, document.Generate(tree))
			if err != nil {
				return fmt.Errorf("save version: %w", err)
			}

			printSuccess("Saved %s v%d", project, v.Number)
			printStats(reg.Len(), countLinks(tree), false)
			printNewline()
			printNextStep("List versions", "archmap versions list "+project)
			return nil
		},
	}
}

// versionsListCommand creates the "versions list" subcommand.
func (c *CLI) versionsListCommand(mongoURI, database *string) *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "list [project]",
		Short: "List a project's stored versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), *mongoURI, *database)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			versions, err := st.List(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("list versions: %w", err)
			}
			if len(versions) == 0 {
				printInfo("No versions stored for %s", args[0])
				return nil
			}

			if pick {
				return c.runVersionPicker(cmd.Context(), st, versions)
			}

			fmt.Println(versionTable(versions, -1))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "select a version interactively and print its document")

	return cmd
}

// runVersionPicker runs the interactive version list and prints the
// selected version's document.
func (c *CLI) runVersionPicker(ctx context.Context, st store.VersionStore, versions []store.Version) error {
	model := NewVersionListModel(versions)
	result, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	final, ok := result.(VersionListModel)
	if !ok || final.Selected == nil {
		return nil
	}

	// List omits document bodies, so fetch the selected one.
	v, err := st.Get(ctx, final.Selected.Project, final.Selected.Number)
	if err != nil {
		return fmt.Errorf("load v%d: %w", final.Selected.Number, err)
	}
	fmt.Print(v.Document)
	return nil
}

// versionsShowCommand creates the "versions show" subcommand.
func (c *CLI) versionsShowCommand(mongoURI, database *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [project] [version]",
		Short: "Print a stored version's document",
		Long: `Print a stored version's document.

The version is a number, or "latest" for the most recent one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), *mongoURI, *database)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			v, err := fetchVersion(cmd.Context(), st, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Print(v.Document)
			return nil
		},
	}
}

// versionsDiffCommand creates the "versions diff" subcommand.
func (c *CLI) versionsDiffCommand(mongoURI, database *string) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "diff [project] [from] [to]",
		Short: "Compare two stored versions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), *mongoURI, *database)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			from, err := fetchVersion(cmd.Context(), st, args[0], args[1])
			if err != nil {
				return err
			}
			to, err := fetchVersion(cmd.Context(), st, args[0], args[2])
			if err != nil {
				return err
			}

			oldTree, _, err := document.Parse(from.Document)
			if err != nil {
				return fmt.Errorf("parse v%d: %w", from.Number, err)
			}
			newTree, _, err := document.Parse(to.Document)
			if err != nil {
				return fmt.Errorf("parse v%d: %w", to.Number, err)
			}

			changes, err := diff.Diff(oldTree, newTree)
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}

			if jsonOut {
				return printJSON(changes)
			}
			if len(changes) == 0 {
				printSuccess("No changes between v%d and v%d", from.Number, to.Number)
				return nil
			}
			printChanges(changes)
			printNewline()
			printDetail("%d changes", len(changes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the changeset as JSON")

	return cmd
}

// fetchVersion resolves a version argument ("latest" or a number).
func fetchVersion(ctx context.Context, st store.VersionStore, project, arg string) (*store.Version, error) {
	if arg == "latest" {
		v, err := st.Latest(ctx, project)
		if err != nil {
			return nil, fmt.Errorf("load latest version: %w", err)
		}
		return v, nil
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("invalid version %q (must be a positive number or 'latest')", arg)
	}
	v, err := st.Get(ctx, project, n)
	if err != nil {
		return nil, fmt.Errorf("load v%d: %w", n, err)
	}
	return v, nil
}
