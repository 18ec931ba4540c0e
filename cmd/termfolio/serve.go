package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xurxxo/termfolio/internal/database"
	"github.com/xurxxo/termfolio/internal/email"
	"github.com/xurxxo/termfolio/internal/geoip"
	"github.com/xurxxo/termfolio/internal/inbox"
	"github.com/xurxxo/termfolio/internal/notify"
	"github.com/xurxxo/termfolio/internal/server"
	"github.com/xurxxo/termfolio/internal/slack"
	"github.com/xurxxo/termfolio/internal/storage"
	"github.com/xurxxo/termfolio/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio HTTP server",
	Long: `Serve the portfolio pages, static assets and the /send-email contact
endpoint. Configuration is read from the environment.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

// openSiteFS returns the site directory as a filesystem, or nil when it does
// not exist.
func openSiteFS(dir string) fs.FS {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}

func runServe(cmd *cobra.Command, args []string) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	})))

	port := getEnv("PORT", "8080")
	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var handlerOpts []inbox.Option
	var pinger server.Pinger
	var deliveryLog database.DBTX

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := database.Connect(ctx, databaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(databaseURL); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		slog.Info("database migrations applied")

		pinger = db
		deliveryLog = db.Pool
		handlerOpts = append(handlerOpts, inbox.WithStore(inbox.NewStore(db.Pool)))
	} else {
		slog.Warn("DATABASE_URL not set, contact messages will not be stored")
	}

	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		store, err := storage.New(ctx, storage.Config{
			Endpoint:  getEnv("S3_ENDPOINT", "http://localhost:3900"),
			Bucket:    bucket,
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Region:    getEnv("S3_REGION", "eu-central-1"),
		})
		if err != nil {
			log.Fatalf("storage initialization failed: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatalf("storage bucket check failed: %v", err)
		}
		slog.Info("storage bucket ready", "bucket", bucket)
		handlerOpts = append(handlerOpts, inbox.WithArchiver(store))
	}

	if path := os.Getenv("GEOIP_DB_PATH"); path != "" {
		resolver, err := geoip.New(path)
		if err != nil {
			log.Fatalf("geoip database failed to open: %v", err)
		}
		defer func() { _ = resolver.Close() }()
		handlerOpts = append(handlerOpts, inbox.WithLocator(resolver))
	}

	emailClient := email.New(email.Config{
		BaseURL:    os.Getenv("LISTMONK_URL"),
		Username:   getEnv("LISTMONK_USER", "admin"),
		Password:   os.Getenv("LISTMONK_PASSWORD"),
		TemplateID: int(getEnvInt64("LISTMONK_TEMPLATE_ID", 0)),
		OwnerEmail: os.Getenv("CONTACT_OWNER_EMAIL"),
	})

	var secondary []notify.Notifier
	if url := os.Getenv("SLACK_WEBHOOK_URL"); url != "" {
		secondary = append(secondary, slack.New(url))
		slog.Info("slack contact notifications enabled")
	}
	if url := os.Getenv("CONTACT_WEBHOOK_URL"); url != "" {
		var opts []webhook.Option
		if deliveryLog != nil {
			opts = append(opts, webhook.WithDeliveryLog(deliveryLog))
		}
		secondary = append(secondary, webhook.New(url, os.Getenv("CONTACT_WEBHOOK_SECRET"), opts...))
		slog.Info("contact webhook enabled")
	}
	notifier := notify.NewMulti(emailClient, secondary...)

	siteDir := getEnv("SITE_DIR", "site")
	siteFS := openSiteFS(siteDir)
	if siteFS != nil {
		slog.Info("serving site", "dir", siteDir)
	}

	srv := server.New(server.Config{
		Pinger:       pinger,
		SiteFS:       siteFS,
		BaseURL:      baseURL,
		AssetOrigins: os.Getenv("ASSET_ORIGINS"),
		EnableDocs:   getEnv("API_DOCS_ENABLED", "false") == "true",
		Contact:      inbox.NewHandler(notifier, handlerOpts...).SendEmail,
		ContactRate:  getEnvFloat("CONTACT_RATE_PER_SECOND", 0),
		ContactBurst: int(getEnvInt64("CONTACT_BURST", 0)),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("termfolio listening", "port", port, "base_url", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-shutdownCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
	if err := notifier.Wait(shutdownCtx); err != nil {
		slog.Warn("pending contact notifications abandoned", "error", err)
	}
	slog.Info("shutdown complete")
}
