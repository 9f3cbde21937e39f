// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Records) == 0 {
		fmt.Fprintln(w, "No matching records found. Try a longer window or different keywords.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-64s  %s\n", "Rank", "Date", "Title", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range out.Records {
		title := r.Title
		if len(title) > 64 {
			title = title[:61] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-64s  %s\n",
			i+1, r.PublishedAt.Format("2006-01-02"), title, r.Source)
	}

	fmt.Fprintf(w, "\n%d records", len(out.Records))
	if out.Stats.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.Stats.DupsRemoved)
	}
	if out.Stats.Undated > 0 {
		fmt.Fprintf(w, " (%d undated skipped)", out.Stats.Undated)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Records)
}
