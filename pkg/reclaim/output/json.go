package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Kind   string      `json:"kind"`
	Files  []jsonFile  `json:"files"`
	Groups []jsonGroup `json:"groups,omitempty"`
	Stats  jsonStats   `json:"stats"`
	Meta   jsonMeta    `json:"meta"`
}

// jsonFile represents a proposed file in JSON output.
type jsonFile struct {
	Path      string    `json:"path"`
	Name      string    `json:"name,omitempty"`
	Dir       string    `json:"dir,omitempty"`
	Ext       string    `json:"ext,omitempty"`
	Size      int64     `json:"size"`
	SizeHuman string    `json:"size_human"`
	ModTime   time.Time `json:"mod_time,omitempty"`
	Age       string    `json:"age,omitempty"`
	Hash      string    `json:"hash,omitempty"`
}

// jsonGroup represents a duplicate group in JSON output.
type jsonGroup struct {
	Hash             string     `json:"hash"`
	Count            int        `json:"count"`
	Size             int64      `json:"size"`
	SizeHuman        string     `json:"size_human"`
	Reclaimable      int64      `json:"reclaimable"`
	ReclaimableHuman string     `json:"reclaimable_human"`
	Files            []jsonFile `json:"files"`
}

// jsonStats represents scan statistics in JSON output.
type jsonStats struct {
	DirsScanned  int64  `json:"dirs_scanned"`
	FilesScanned int64  `json:"files_scanned"`
	BytesScanned int64  `json:"bytes_scanned"`
	Duration     string `json:"duration"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Roots       []string `json:"roots"`
	ScanID      string   `json:"scan_id,omitempty"`
	TotalFiles  int      `json:"total_files"`
	TotalGroups int      `json:"total_groups"`
	TotalSize   int64    `json:"total_size"`
	Reclaimable int64    `json:"reclaimable"`
	Warnings    []string `json:"warnings,omitempty"`
	Interrupted bool     `json:"interrupted"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with files, groups, stats, and meta
// sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts Result to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	files := make([]jsonFile, len(r.Files))
	for i, file := range r.Files {
		files[i] = buildJSONFile(file)
	}

	groups := make([]jsonGroup, len(r.Groups))
	for i, group := range r.Groups {
		members := make([]jsonFile, len(group.Files))
		for j, file := range group.Files {
			members[j] = buildJSONFile(file)
		}
		groups[i] = jsonGroup{
			Hash:             group.Hash,
			Count:            group.Count,
			Size:             group.Size,
			SizeHuman:        group.SizeHuman,
			Reclaimable:      group.Reclaimable,
			ReclaimableHuman: group.ReclaimableHuman,
			Files:            members,
		}
	}
	if len(groups) == 0 {
		groups = nil
	}

	stats := jsonStats{
		DirsScanned:  r.Stats.DirsScanned,
		FilesScanned: r.Stats.FilesScanned,
		BytesScanned: r.Stats.BytesScanned,
		Duration:     formatDurationString(r.Stats.Duration),
	}

	meta := jsonMeta{
		Roots:       r.Roots,
		ScanID:      r.ScanID,
		TotalFiles:  r.TotalFiles,
		TotalGroups: r.TotalGroups,
		TotalSize:   r.TotalSize(),
		Reclaimable: r.Reclaimable(),
		Warnings:    r.Warnings,
		Interrupted: r.Interrupted,
	}

	return jsonOutput{
		Kind:   r.Kind,
		Files:  files,
		Groups: groups,
		Stats:  stats,
		Meta:   meta,
	}
}

// buildJSONFile converts a FileInfo to its JSON mirror.
func buildJSONFile(file FileInfo) jsonFile {
	return jsonFile{
		Path:      file.Path,
		Name:      file.Name,
		Dir:       file.Dir,
		Ext:       file.Ext,
		Size:      file.Size,
		SizeHuman: file.SizeHuman,
		ModTime:   file.ModTime,
		Age:       formatDurationString(file.Age),
		Hash:      file.Hash,
	}
}

// formatDurationString formats a duration as a string for JSON output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one object per line).
// Each proposed file, or each duplicate group, is written as a compact JSON
// object on its own line. This format is suitable for streaming processing
// with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, file := range r.Files {
		data, err := json.Marshal(buildJSONFile(file))
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}

	for _, group := range r.Groups {
		members := make([]jsonFile, len(group.Files))
		for j, file := range group.Files {
			members[j] = buildJSONFile(file)
		}
		data, err := json.Marshal(jsonGroup{
			Hash:             group.Hash,
			Count:            group.Count,
			Size:             group.Size,
			SizeHuman:        group.SizeHuman,
			Reclaimable:      group.Reclaimable,
			ReclaimableHuman: group.ReclaimableHuman,
			Files:            members,
		})
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}

	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
