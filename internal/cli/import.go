package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"techblog/internal/config"
	"techblog/internal/content"
	"techblog/internal/importer"
	"techblog/internal/storage"
)

type importOptions struct {
	contentDir string
	dbPath     string
	force      bool
}

func newImportCmd() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the content directory into the post database",
		Long: `Import every markdown file under the content directory into the SQLite
post database. Unchanged files are skipped unless --force is given, and posts whose
source file is gone are removed.

Defaults come from CONTENT_DIR and DB_PATH (or .env).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.contentDir, "content-dir", "", "content directory (default: $CONTENT_DIR)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "database path (default: $DB_PATH)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "re-import files even when unchanged")
	return cmd
}

func runImport(cmd *cobra.Command, opts *importOptions) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.contentDir != "" {
		cfg.ContentDir = opts.contentDir
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pipeline := importer.NewPipeline(content.NewLoader(cfg.ContentDir), storage.NewPostRepo(db))
	slog.InfoContext(ctx, "importing content", "content_dir", cfg.ContentDir, "db", cfg.DBPath, "force", opts.force)

	result, err := pipeline.ImportAll(ctx, importer.Options{Force: opts.force})
	fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, imported %d, skipped %d, failed %d, pruned %d in %s\n",
		result.Scanned, result.Imported, result.Skipped, result.Failed, result.Pruned, result.Duration)
	if err != nil {
		return fmt.Errorf("import finished with errors: %w", err)
	}
	return nil
}
