package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// renderOrder fixes the section order of the document.
var renderOrder = []string{"sent", "scheduled", "draft"}

var sectionTitles = map[string]string{
	"sent":      "Sent",
	"scheduled": "Scheduled",
	"draft":     "Drafts",
}

// Render formats the document as Markdown: a header with the list name and
// export date, then one section per status with reverse-chronological,
// numbered entries.
func Render(doc *Document) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# AWeber Export\n\n")
	fmt.Fprintf(&sb, "List: %s\n", doc.ListName)
	fmt.Fprintf(&sb, "Date: %s\n", doc.Date)

	for _, status := range renderOrder {
		group := filterByStatus(doc.Entries, status)
		if len(group) == 0 {
			continue
		}

		title := sectionTitles[status]
		if title == "" {
			title = status
		}
		fmt.Fprintf(&sb, "\n## %s (%d)\n", title, len(group))

		for i, entry := range group {
			sb.WriteString("\n---\n")
			fmt.Fprintf(&sb, "### %d. %s\n", i+1, entry.Subject)
			fmt.Fprintf(&sb, "- **Date:** %s\n", orNA(entry.Date))
			fmt.Fprintf(&sb, "- **Status:** %s\n", entry.Status)
			if entry.Preview != "" {
				fmt.Fprintf(&sb, "- **Preview:** %s\n", entry.Preview)
			}
			if entry.Body != "" {
				fmt.Fprintf(&sb, "\n%s\n", entry.Body)
			}
		}
	}

	// Entries whose status the API invented are appended so the document
	// still contains every fetched broadcast exactly once.
	extra := filterOther(doc.Entries)
	if len(extra) > 0 {
		fmt.Fprintf(&sb, "\n## Other (%d)\n", len(extra))
		for i, entry := range extra {
			sb.WriteString("\n---\n")
			fmt.Fprintf(&sb, "### %d. %s\n", i+1, entry.Subject)
			fmt.Fprintf(&sb, "- **Date:** %s\n", orNA(entry.Date))
			fmt.Fprintf(&sb, "- **Status:** %s\n", entry.Status)
		}
	}

	return []byte(sb.String())
}

// WriteFile writes data atomically: into a temp file in the target
// directory first, then renamed over the destination.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".aweber-export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func filterByStatus(entries []Entry, status string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

func filterOther(entries []Entry) []Entry {
	known := make(map[string]bool, len(renderOrder))
	for _, s := range renderOrder {
		known[s] = true
	}
	var out []Entry
	for _, e := range entries {
		if !known[e.Status] {
			out = append(out, e)
		}
	}
	return out
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
