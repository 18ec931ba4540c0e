package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/xurxxo/termfolio/internal/contact"
	"github.com/xurxxo/termfolio/internal/site"
	"github.com/xurxxo/termfolio/internal/tui"
)

var (
	playLogFile  string
	playEndpoint string
	playPage     string
	playTitle    string
	playPath     string
	playContent  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a page's terminal animation in this terminal",
}

var playContactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Play the contact page and send a message",
	Args:  cobra.NoArgs,
	RunE:  runPlayContact,
}

var playUnzipCmd = &cobra.Command{
	Use:   "unzip",
	Short: "Play the extraction animation of a page",
	Long: `Play the extraction animation of a page. The archive name is chosen from
the page: pass --page with a site route, or --title and --path directly.`,
	Args: cobra.NoArgs,
	RunE: runPlayUnzip,
}

func init() {
	playCmd.PersistentFlags().StringVar(&playLogFile, "log-file", "", "Write logs to this file (default: discard)")

	playContactCmd.Flags().StringVar(&playEndpoint, "endpoint", getEnv("BASE_URL", "http://localhost:8080"), "Base URL of the server receiving /send-email")

	playUnzipCmd.Flags().StringVar(&playPage, "page", "/", "Site route of the page to play")
	playUnzipCmd.Flags().StringVar(&playTitle, "title", "", "Page title (overrides --page)")
	playUnzipCmd.Flags().StringVar(&playPath, "path", "", "Page path (overrides --page)")
	playUnzipCmd.Flags().StringVar(&playContent, "content", "", "File shown once extraction completes")

	playCmd.AddCommand(playContactCmd)
	playCmd.AddCommand(playUnzipCmd)
}

// setupPlayLogging keeps slog output off the terminal while a program owns
// it. The returned func closes the log file.
func setupPlayLogging(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { _ = f.Close() }, nil
}

func runPlayContact(cmd *cobra.Command, args []string) error {
	closeLog, err := setupPlayLogging(playLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt)
	defer stop()

	return tui.RunContact(ctx, contact.NewClient(playEndpoint))
}

// pageIdentity resolves the title and path the unzip player selects its
// archive from.
func pageIdentity(page, title, path string) (string, string, error) {
	if title != "" || path != "" {
		return title, path, nil
	}
	p, ok := site.Lookup(page)
	if !ok {
		return "", "", fmt.Errorf("unknown page %q", page)
	}
	return p.Title, p.Route, nil
}

func loadContent(path, route string) (string, error) {
	if path == "" {
		return fmt.Sprintf("Unpacked %s. Open it in a browser for the full page.", route), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

func runPlayUnzip(cmd *cobra.Command, args []string) error {
	title, path, err := pageIdentity(playPage, playTitle, playPath)
	if err != nil {
		return err
	}
	content, err := loadContent(playContent, path)
	if err != nil {
		return err
	}

	closeLog, err := setupPlayLogging(playLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt)
	defer stop()

	return tui.RunUnzip(ctx, title, path, content)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
