package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"semantic-docs-be/internal/bootstrap"
	"semantic-docs-be/internal/config"
	"semantic-docs-be/internal/dto"
	"semantic-docs-be/pkg/database"

	"github.com/fatih/color"
)

const usage = `Usage: docsearch <command> [flags]

Commands:
  import-all   -path <dir> [-language <code>]
  import-file  -path <file> [-language <code>] [-root <dir>] [-translate]
  delete       -path <relative-path>
  search       -query <text> [-limit <n>] [-max-distance <f>]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	ctx := context.Background()

	// Audit consumer must run so CLI operations land in the audit trail too.
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Warn: audit consumer failed to start: %v", err)
	}

	switch os.Args[1] {
	case "import-all":
		runImportAll(ctx, container, cfg, os.Args[2:])
	case "import-file":
		runImportFile(ctx, container, cfg, os.Args[2:])
	case "delete":
		runDelete(ctx, container, os.Args[2:])
	case "search":
		runSearch(ctx, container, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runImportAll(ctx context.Context, c *bootstrap.Container, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("import-all", flag.ExitOnError)
	path := fs.String("path", cfg.Importer.ContentRoot, "directory to import")
	language := fs.String("language", cfg.Importer.PrimaryLanguage, "language code")
	fs.Parse(args)

	res, err := c.DocumentService.ImportAll(ctx, &dto.ImportAllRequest{
		Path:     *path,
		Language: *language,
	})
	if err != nil {
		log.Fatalf("Error: import failed: %v", err)
	}

	color.Green("✅ Import finished: %d added, %d updated, %d skipped", res.Added, res.Updated, res.Skipped)
	for _, e := range res.Errors {
		color.Red("  ✗ %s", e)
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}

func runImportFile(ctx context.Context, c *bootstrap.Container, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("import-file", flag.ExitOnError)
	path := fs.String("path", "", "file to import")
	language := fs.String("language", cfg.Importer.PrimaryLanguage, "language code")
	root := fs.String("root", "", "content root for relative path derivation")
	translate := fs.Bool("translate", false, "also attach a translated-variant embedding")
	fs.Parse(args)

	res, err := c.DocumentService.ImportFile(ctx, &dto.ImportFileRequest{
		Path:             *path,
		Language:         *language,
		RootPath:         *root,
		TranslateVariant: *translate,
	})
	if err != nil {
		log.Fatalf("Error: import failed: %v", err)
	}

	color.Green("✅ %s: %s", res.FilePath, res.Status)
}

func runDelete(ctx context.Context, c *bootstrap.Container, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	path := fs.String("path", "", "relative path of the document to delete")
	fs.Parse(args)

	res, err := c.DocumentService.Delete(ctx, *path)
	if err != nil {
		log.Fatalf("Error: delete failed: %v", err)
	}

	if res.Deleted {
		color.Green("✅ Deleted %s", res.FilePath)
	} else {
		color.Yellow("Nothing to delete for %s", res.FilePath)
	}
}

func runSearch(ctx context.Context, c *bootstrap.Container, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("query", "", "free-text query")
	limit := fs.Int("limit", 10, "maximum results")
	maxDistance := fs.Float64("max-distance", 0, "cosine distance cutoff (0 disables)")
	fs.Parse(args)

	var cutoff *float64
	if *maxDistance > 0 {
		cutoff = maxDistance
	}

	results, err := c.SearchService.Search(ctx, *query, *limit, cutoff)
	if err != nil {
		log.Fatalf("Error: search failed: %v", err)
	}

	if len(results) == 0 {
		color.Yellow("No matches")
		return
	}

	for i, r := range results {
		title := ""
		if r.Title != nil {
			title = *r.Title
		}
		color.Cyan("%2d. %s (distance %.4f)", i+1, r.FilePath, r.Distance)
		if title != "" {
			fmt.Printf("    %s\n", title)
		}
		fmt.Printf("    %s\n", r.Snippet)
	}
}
