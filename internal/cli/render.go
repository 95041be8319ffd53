package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/steipete/freshtabs"
)

func renderRecords(w io.Writer, records []freshtabs.Record, format string) error {
	if format == formatJSON {
		return renderJSON(w, records)
	}
	return renderTSV(w, records)
}

// renderTSV writes one title<TAB>url line per record. An empty title is
// emitted as an empty field so line-based tools keep their columns.
func renderTSV(w io.Writer, records []freshtabs.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Title, r.URL); err != nil {
			return err
		}
	}
	return nil
}

type jsonRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	TabID int    `json:"tabId"`
	Index int    `json:"index"`
}

func renderJSON(w io.Writer, records []freshtabs.Record) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			Title: r.Title,
			URL:   r.URL,
			TabID: r.TabID,
			Index: r.Index,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
