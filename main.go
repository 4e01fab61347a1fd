package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"wr_history/internal/app"
	"wr_history/internal/catalog"
	"wr_history/internal/deployment"
	"wr_history/internal/fetch"
	"wr_history/internal/records"
	"wr_history/internal/server"
	"wr_history/internal/sheets"
	"wr_history/internal/timeline"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	buildOnly := flag.Bool("build-only", false, "Build the catalog and exit (don't start the server)")
	watch := flag.Bool("watch", true, "Rebuild the catalog when the data directory changes")
	inspect := flag.String("inspect", "", "Print the reconstructed timeline for a selection fragment (e.g. 'map=jump_beef&class=Demo') and exit")
	export := flag.String("export", "", "Export the timeline for a selection fragment to the configured spreadsheet and exit")
	deploy := flag.String("deploy", "", "Deploy the data directory to user@host:path and exit")
	flag.Parse()

	log.Info().
		Bool("build_only", *buildOnly).
		Bool("watch", *watch).
		Msg("Starting WR history service")

	// Load configuration
	config, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Build the initial catalog
	cat, err := catalog.Build(config.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build catalog")
	}
	if err := cat.Write(config.DataDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to write catalog")
	}

	switch {
	case *inspect != "":
		if err := runInspect(ctx, config, cat, *inspect); err != nil {
			log.Fatal().Err(err).Msg("Inspect failed")
		}
		return
	case *export != "":
		if err := runExport(ctx, config, cat, *export); err != nil {
			log.Fatal().Err(err).Msg("Export failed")
		}
		return
	case *deploy != "":
		deployer := deployment.NewSSHDeployer(*deploy, config.DeployKeyFile)
		defer deployer.Disconnect()
		if err := deployer.DeployDataDir(config.DataDir); err != nil {
			log.Fatal().Err(err).Msg("Deploy failed")
		}
		return
	case *buildOnly:
		log.Info().Msg("Build-only mode: exiting after catalog build")
		return
	}

	srv := server.New(config, cat)

	if *watch {
		watcher := catalog.NewWatcher(config.DataDir, func(fresh *catalog.Catalog) {
			srv.SetCatalog(fresh)
			if err := fresh.Write(config.DataDir); err != nil {
				log.Error().Err(err).Msg("Failed to rewrite catalog")
			}
		})
		if err := watcher.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start data directory watcher")
		}
	}

	log.Info().
		Str("addr", config.ListenAddr).
		Int("maps", cat.Count).
		Msg("Serving WR history")

	if err := http.ListenAndServe(config.ListenAddr, srv.Router()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

// loadSelection resolves rows for a selection, either from the remote
// archive or the local data directory. A missing export yields no rows,
// not a failure.
func loadSelection(ctx context.Context, config *app.Config, cat *catalog.Catalog, sel timeline.Selection) []records.Row {
	file := cat.Lookup(sel.Map, sel.Class)
	if file == "" {
		log.Warn().
			Str("map", sel.Map).
			Str("class", sel.Class).
			Msg("Selection not present in catalog")
		return nil
	}

	if config.ArchiveBaseURL != "" {
		client := fetch.NewClient(config.ArchiveBaseURL)
		rows, err := client.GetHistory(ctx, file)
		if err != nil {
			log.Warn().Err(err).Msg("Archive fetch failed; no data")
			return nil
		}
		return rows
	}

	data, err := os.ReadFile(filepath.Join(config.DataDir, file))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read export; no data")
		return nil
	}
	return records.Rows(string(data))
}

func runInspect(ctx context.Context, config *app.Config, cat *catalog.Catalog, fragment string) error {
	sel := timeline.ParseFragment(fragment)
	rows := loadSelection(ctx, config, cat, sel)
	points := timeline.Reconstruct(timeline.Filter(rows, sel), nil)

	if len(points) == 0 {
		fmt.Println("no data")
		return nil
	}

	for _, p := range points {
		marker := " "
		switch {
		case p.WipedBoundary:
			marker = "!"
		case p.Wiped:
			marker = "x"
		}
		fmt.Printf("%s %s  %s  %s\n",
			marker,
			p.Date.Format("2006-01-02"),
			records.FormatRunTime(p.Seconds),
			p.Row.Player)
	}
	return nil
}

func runExport(ctx context.Context, config *app.Config, cat *catalog.Catalog, fragment string) error {
	if config.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID must be configured for export")
	}

	sheetsClient, err := sheets.NewClient(ctx, config.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	sel := timeline.ParseFragment(fragment)
	rows := loadSelection(ctx, config, cat, sel)
	points := timeline.Reconstruct(timeline.Filter(rows, sel), nil)

	exporter := sheets.NewExporter(sheetsClient)
	return exporter.Export(ctx, config.SpreadsheetID, sel, points)
}
