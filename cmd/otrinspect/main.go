package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"otr-lab/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	noColor := flag.Bool("no-color", false, "Disable colours")
	flag.Parse()

	if *noColor {
		color.Disable()
	}

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repository := repositories.NewMessageRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	pending, err := repository.GetPendingDestructions()
	if err != nil {
		log.Fatal(err)
	}
	render(os.Stdout, pending, time.Now())
}

// render prints one row per pending destruction, overdue deadlines in red.
func render(w io.Writer, pending []repositories.PendingDestruction, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Conversation", "Message", "Deadline", "Remaining"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, p := range pending {
		remaining := p.Deadline.Sub(now).Truncate(time.Second)
		status := color.Green.Sprint(remaining.String())
		if remaining <= 0 {
			status = color.Red.Sprint("overdue")
		}
		table.Append([]string{
			p.ConversationID.String(),
			p.MessageID.String(),
			p.Deadline.Format(time.RFC3339),
			status,
		})
	}
	table.Render()
	_, _ = fmt.Fprintf(w, "%d pending destruction(s)\n", len(pending))
}

func openDB(path string) (*badger.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("no database path, set -db or BADGER_FILEPATH")
	}
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}
