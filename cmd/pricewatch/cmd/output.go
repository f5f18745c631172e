package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "pricewatch/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printItemsTable(items []domain.TrackedItem) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("#\tID\tNAME\tCURRENT\tTARGET\tLAST CHECKED\tEMAIL\n")
	for i := range items {
		it := &items[i]
		tw.writef("%d\t%s\t%s\t%s%.2f\t%s%.2f\t%s\t%s\n",
			i,
			it.ID,
			truncate(it.Name, 40),
			domain.CurrencySymbol, it.CurrentPrice,
			domain.CurrencySymbol, it.TargetPrice,
			it.LastChecked,
			it.RecipientEmail,
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
