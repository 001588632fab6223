package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/adamkorga/aweber-exporter/internal/aweber"
	"github.com/adamkorga/aweber-exporter/internal/content"
	"github.com/adamkorga/aweber-exporter/internal/logging"
)

// Entry is one broadcast prepared for rendering.
type Entry struct {
	ID      int64
	Subject string
	Status  string
	Date    string
	Preview string
	Body    string
}

// Document is the fully aggregated export, ready to render.
type Document struct {
	ListName string
	Date     string
	Entries  []Entry
}

// Exporter fetches all broadcasts of the account's first list and writes
// them to a single Markdown document.
type Exporter struct {
	client *aweber.Client
	logger *slog.Logger

	// now supplies the document date; replaced in tests for stable output.
	now func() time.Time
}

// New creates an Exporter over the given API client.
func New(client *aweber.Client, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes the whole export: account and list discovery, per-status
// broadcast fetches with pagination, detail fetches, preview and body
// extraction, and finally the atomic document write. Any API failure
// aborts the run before anything is written.
func (e *Exporter) Run(ctx context.Context, outPath string) error {
	doc, err := e.Collect(ctx)
	if err != nil {
		return err
	}

	if err := WriteFile(outPath, Render(doc)); err != nil {
		return fmt.Errorf("writing export document: %w", err)
	}
	e.logger.Info("export written", "path", outPath, logging.Count(len(doc.Entries)))
	return nil
}

// Collect aggregates every broadcast of the first list into a Document.
func (e *Exporter) Collect(ctx context.Context) (*Document, error) {
	logger := logging.WithOperation(e.logger, "export")

	acct, err := e.client.FirstAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering account: %w", err)
	}

	list, err := e.client.FirstList(ctx, acct)
	if err != nil {
		return nil, fmt.Errorf("discovering list: %w", err)
	}
	logger.Info("exporting list", "list", list.Name, "list_id", list.ID)

	var entries []Entry
	for _, status := range aweber.Statuses {
		broadcasts, err := e.client.ListBroadcasts(ctx, acct, list, status)
		if err != nil {
			return nil, fmt.Errorf("listing %s broadcasts: %w", status, err)
		}
		logger.Info("fetched broadcasts", logging.Status(status), logging.Count(len(broadcasts)))

		for i := range broadcasts {
			detail, err := e.client.GetBroadcast(ctx, acct, list, &broadcasts[i])
			if err != nil {
				return nil, fmt.Errorf("fetching broadcast %d: %w", broadcasts[i].BroadcastID, err)
			}
			entries = append(entries, newEntry(detail, status))
		}
	}

	sortEntries(entries)
	return &Document{
		ListName: list.Name,
		Date:     e.now().UTC().Format("2006-01-02"),
		Entries:  entries,
	}, nil
}

func newEntry(b *aweber.Broadcast, fallbackStatus string) Entry {
	status := b.Status
	if status == "" {
		status = fallbackStatus
	}
	subject := b.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	return Entry{
		ID:      b.BroadcastID,
		Subject: subject,
		Status:  status,
		Date:    b.Date(),
		Preview: content.Preview(b.BodyHTML),
		Body:    content.BodyMarkdown(b.BodyHTML),
	}
}

// sortEntries orders entries reverse-chronologically, breaking date ties
// by broadcast ID so repeated runs over an unchanged broadcast set render
// byte-identical documents. Dates are ISO 8601 strings, so lexicographic
// comparison matches chronological order.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].ID < entries[j].ID
	})
}
