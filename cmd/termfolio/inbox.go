package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/xurxxo/termfolio/internal/database"
	"github.com/xurxxo/termfolio/internal/inbox"
)

var inboxLimit int

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List recent contact messages",
	Long:  `List the most recent contact messages stored in DATABASE_URL, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runInbox,
}

func init() {
	inboxCmd.Flags().IntVarP(&inboxLimit, "limit", "n", 20, "Number of messages to show")
}

func runInbox(cmd *cobra.Command, args []string) error {
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if inboxLimit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", inboxLimit)
	}

	ctx, cancel := context.WithTimeout(contextOrBackground(cmd.Context()), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	messages, err := inbox.NewStore(db.Pool).Recent(ctx, inboxLimit)
	if err != nil {
		return err
	}
	return printMessages(cmd.OutOrStdout(), messages)
}

func printMessages(w io.Writer, messages []inbox.Message) error {
	if len(messages) == 0 {
		_, err := fmt.Fprintln(w, "No messages.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECEIVED\tFROM\tCOUNTRY\tMESSAGE")
	for _, m := range messages {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			m.CreatedAt.UTC().Format("2006-01-02 15:04"),
			m.Email,
			orDash(m.Country),
			preview(m.Body, 60),
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// preview flattens body to one line of at most n runes.
func preview(body string, n int) string {
	flat := strings.Join(strings.Fields(body), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n-1]) + "…"
}
