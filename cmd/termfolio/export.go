package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xurxxo/termfolio/internal/server"
	"github.com/xurxxo/termfolio/internal/site"
)

var (
	exportSiteDir string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the site to static files",
	Long: `Render every page through the server into an output directory and copy
the static assets next to them, for hosting without a backend.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSiteDir, "site", getEnv("SITE_DIR", "site"), "Site directory with pages and static/")
	exportCmd.Flags().StringVar(&exportOut, "out", "dist", "Output directory (recreated)")
}

func runExport(cmd *cobra.Command, args []string) error {
	siteFS := openSiteFS(exportSiteDir)
	if siteFS == nil {
		return fmt.Errorf("site directory %q not found", exportSiteDir)
	}

	srv := server.New(server.Config{SiteFS: siteFS})
	if err := site.Export(srv, siteFS, exportSiteDir, exportOut); err != nil {
		return fmt.Errorf("export site: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pages to %s\n", len(site.Pages), exportOut)
	return nil
}
