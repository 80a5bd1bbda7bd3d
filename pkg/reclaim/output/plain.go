package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter formats output as a simple tab-separated table.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	if len(r.Groups) > 0 {
		return f.formatGroups(w, r)
	}
	return f.formatFiles(w, r)
}

// formatFiles writes proposed files as an aligned SIZE/PATH table.
func (f *PlainFormatter) formatFiles(w *bytes.Buffer, r *Result) error {
	// Use tabwriter for aligned columns
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	// Write header
	_, err := tw.Write([]byte("SIZE\tPATH\n"))
	if err != nil {
		return err
	}

	// Write data rows
	for _, file := range r.Files {
		_, err := tw.Write([]byte(file.SizeHuman + "\t" + file.Path + "\n"))
		if err != nil {
			return err
		}
	}

	// Flush tabwriter to buffer
	return tw.Flush()
}

// formatGroups writes duplicate groups as blank-line separated blocks. Each
// block starts with a summary line followed by one member path per line.
func (f *PlainFormatter) formatGroups(w *bytes.Buffer, r *Result) error {
	for i, group := range r.Groups {
		if i > 0 {
			w.WriteByte('\n')
		}
		fmt.Fprintf(w, "%d x %s (%s reclaimable) %s\n",
			group.Count, group.SizeHuman, group.ReclaimableHuman, group.Hash)
		for _, file := range group.Files {
			w.WriteString("  " + file.Path + "\n")
		}
	}
	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
