package cli

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/content"
	"github.com/matzehuels/ridgeline/pkg/errors"
)

// contentCommand creates the content command.
func (c *CLI) contentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect and publish the portfolio registry",
	}
	cmd.AddCommand(c.contentListCommand())
	cmd.AddCommand(c.contentImportCommand())
	return cmd
}

func (c *CLI) contentListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "List records from the configured source",
		Example: `  ridgeline content list
  ridgeline content list projects --json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats := content.Categories()
			if len(args) == 1 {
				cat, err := content.ParseCategory(args[0])
				if err != nil {
					return err
				}
				cats = []content.Category{cat}
			}

			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var all []content.Record
			for _, cat := range cats {
				recs, err := store.List(ctx, cat)
				if err != nil {
					return err
				}
				all = append(all, recs...)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}
			printRecords(all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func (c *CLI) contentImportCommand() *cobra.Command {
	var uri, database string

	cmd := &cobra.Command{
		Use:   "import [file.toml]",
		Short: "Replace MongoDB records with a TOML registry",
		Long: `Import loads a TOML registry (the embedded one when no file is given) and
replaces the MongoDB records of every category it contains.

The connection defaults to content.mongo_uri and content.mongo_database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := content.DefaultStore()
			if len(args) == 1 {
				s, err := content.OpenTOML(args[0])
				if err != nil {
					return err
				}
				src = s
			}
			if uri == "" {
				uri = c.Config.Content.MongoURI
			}
			if database == "" {
				database = c.Config.Content.MongoDatabase
			}
			if uri == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "no MongoDB URI: set --mongo-uri or content.mongo_uri")
			}
			return c.runImport(cmd.Context(), src.All(), uri, database)
		},
	}
	cmd.Flags().StringVar(&uri, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&database, "database", "", "MongoDB database (default ridgeline)")
	return cmd
}

func (c *CLI) runImport(ctx context.Context, recs []content.Record, uri, database string) error {
	spinner := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
	spinner.Start()

	store, err := content.NewMongoStore(ctx, uri, database)
	if err != nil {
		spinner.StopWithError("Connection failed")
		return err
	}
	defer store.Close()

	spinner.SetMessage(fmt.Sprintf("Importing %d records...", len(recs)))
	prog := newProgress(loggerFromContext(ctx))
	if err := store.EnsureIndexes(ctx); err != nil {
		spinner.StopWithError("Index creation failed")
		return err
	}
	n, err := store.Import(ctx, recs)
	if err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Imported %d records", n))
	prog.done("import finished")
	return nil
}

// openStore opens the configured content store behind the artifact cache.
func (c *CLI) openStore(ctx context.Context) (content.Store, error) {
	ch, err := c.newCache(ctx, false)
	if err != nil {
		c.Logger.Warn("cache unavailable, reading content directly", "err", err)
		ch = nil
	}
	return c.Config.OpenStore(ctx, ch, c.Logger)
}

// printRecords prints one table per category.
func printRecords(recs []content.Record) {
	if len(recs) == 0 {
		printInfo("No records")
		return
	}
	var (
		current content.Category
		rows    [][]string
	)
	flush := func() {
		if len(rows) == 0 {
			return
		}
		fmt.Println(StyleTitle.Render(strings.ToUpper(string(current))))
		fmt.Println(renderTable([]string{"Title", "Role", "Tags", "Images"}, rows))
		rows = nil
	}
	for _, r := range recs {
		if r.Category != current {
			flush()
			current = r.Category
		}
		role := cmp.Or(r.Role, r.Field, r.Institution)
		tags := r.Tags
		if len(tags) == 0 {
			tags = r.Tracks
		}
		rows = append(rows, []string{r.Title, role, strings.Join(tags, ", "), fmt.Sprint(len(r.Media.Images()))})
	}
	flush()
}

func categoryNames() []string {
	cats := content.Categories()
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = string(cat)
	}
	return names
}
